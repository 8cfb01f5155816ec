package auth

import (
	"errors"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid username or password")

// CredentialStore резолвит учётные данные в Identity. Абстракция позволяет
// подменить статическую таблицу настоящим бэкендом, не трогая ядро.
type CredentialStore interface {
	// Authenticate проверяет пару логин/пароль и возвращает Identity.
	Authenticate(username, password string) (domain.Identity, error)
	// Lookup возвращает Identity по имени без проверки пароля
	// (используется при восстановлении сессии из токена).
	Lookup(username string) (domain.Identity, error)
}

// account — статическая учётная запись.
type account struct {
	password string
	roles    []domain.Role
}

// StaticStore — предопределённая таблица из трёх служебных учёток.
// Пароли хранятся открытым текстом: хэширование вне рамок сервиса.
type StaticStore struct {
	accounts map[string]account
}

// NewStaticStore возвращает таблицу учёток по умолчанию.
func NewStaticStore() *StaticStore {
	return &StaticStore{
		accounts: map[string]account{
			"seller":     {password: "password1", roles: []domain.Role{domain.RoleSeller}},
			"cashier":    {password: "password2", roles: []domain.Role{domain.RoleCashier}},
			"accountant": {password: "password3", roles: []domain.Role{domain.RoleAccountant}},
		},
	}
}

// Authenticate проверяет пару логин/пароль.
func (s *StaticStore) Authenticate(username, password string) (domain.Identity, error) {
	acc, ok := s.accounts[username]
	if !ok || acc.password != password {
		return domain.Identity{}, ErrInvalidCredentials
	}
	return domain.Identity{Username: username, Roles: acc.roles}, nil
}

// Lookup возвращает Identity по имени учётки.
func (s *StaticStore) Lookup(username string) (domain.Identity, error) {
	acc, ok := s.accounts[username]
	if !ok {
		return domain.Identity{}, ErrInvalidCredentials
	}
	return domain.Identity{Username: username, Roles: acc.roles}, nil
}

var _ CredentialStore = (*StaticStore)(nil)
