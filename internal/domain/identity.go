package domain

// Role определяет право доступа к операциям сервиса.
type Role string

const (
	RoleSeller     Role = "seller"
	RoleCashier    Role = "cashier"
	RoleAccountant Role = "accountant"
)

// Identity — результат резолва запроса в учётную запись.
// Нулевое значение означает анонимного вызывающего. Каждая операция ядра
// принимает Identity явным аргументом вместо чтения ambient-сессии.
type Identity struct {
	Username string
	Roles    []Role
}

// Authenticated сообщает, прошёл ли вызывающий аутентификацию.
func (id Identity) Authenticated() bool {
	return id.Username != ""
}

// HasRole проверяет наличие конкретной роли.
func (id Identity) HasRole(role Role) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaff сообщает, принадлежит ли вызывающий персоналу магазина:
// любая из трёх ролей открывает служебное представление каталога.
func (id Identity) IsStaff() bool {
	return id.HasRole(RoleSeller) || id.HasRole(RoleCashier) || id.HasRole(RoleAccountant)
}
