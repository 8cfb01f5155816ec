package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/domain"
	"github.com/vladislavdragonenkov/ims/internal/metrics"
)

// Service реализует операции над каталогом товаров и правило видимости
// для неаутентифицированных вызывающих.
type Service struct {
	products domain.ProductRepository
	metrics  *metrics.Metrics
	logger   *log.Entry
}

// NewService конструирует сервис каталога.
func NewService(products domain.ProductRepository, m *metrics.Metrics, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "catalog")
	}
	return &Service{products: products, metrics: m, logger: logger}
}

// Listing — результат чтения каталога. IncludeStatus сообщает слою
// представления, можно ли показывать поле статуса.
type Listing struct {
	Products      []domain.Product
	IncludeStatus bool
}

// ListProducts возвращает каталог с учётом роли вызывающего.
// Персонал видит все товары вместе со статусом; анонимный вызывающий —
// только невыкупленные товары и без поля статуса. Это бизнес-правило
// приватности, а не фильтр хранилища.
func (s *Service) ListProducts(caller domain.Identity) (Listing, error) {
	all, err := s.products.List()
	if err != nil {
		return Listing{}, fmt.Errorf("list products: %w", err)
	}

	if caller.IsStaff() {
		return Listing{Products: all, IncludeStatus: true}, nil
	}

	visible := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if p.Status == domain.ProductStatusOrdered {
			continue
		}
		visible = append(visible, p)
	}
	return Listing{Products: visible, IncludeStatus: false}, nil
}

// CreateInput описывает поля нового товара.
type CreateInput struct {
	Name     string
	Price    float64
	ListedAt time.Time
	Status   domain.ProductStatus
}

// CreateProduct создаёт один товар. Требует аутентификации (любая роль).
// Валидация едина с пакетным режимом.
func (s *Service) CreateProduct(caller domain.Identity, in CreateInput) (domain.Product, error) {
	if !caller.Authenticated() {
		return domain.Product{}, domain.ErrUnauthenticated
	}

	product, err := s.build(in)
	if err != nil {
		return domain.Product{}, err
	}

	if err := s.products.Create(product); err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.logger.WithFields(log.Fields{"product_id": product.ID, "name": product.Name}).Info("product created")
	s.metrics.ProductCreated(1)
	return product, nil
}

// CreateProducts создаёт упорядоченный список товаров. Ошибка любого
// элемента проваливает весь пакет с указанием виновника; в хранилище
// не попадает ничего.
func (s *Service) CreateProducts(caller domain.Identity, ins []CreateInput) ([]domain.Product, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	products := make([]domain.Product, 0, len(ins))
	for _, in := range ins {
		product, err := s.build(in)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", in.Name, err)
		}
		products = append(products, product)
	}

	if err := s.products.CreateBatch(products); err != nil {
		return nil, fmt.Errorf("create product batch: %w", err)
	}

	s.logger.WithField("count", len(products)).Info("product batch created")
	s.metrics.ProductCreated(len(products))
	return products, nil
}

// ChangeInput описывает изменяемые поля товара; nil означает «не трогать».
// Статус через каталог не редактируется: переход available -> ordered
// принадлежит оформлению заказа и обратного пути не имеет.
type ChangeInput struct {
	Name     *string
	Price    *float64
	ListedAt *time.Time
}

// UpdateProduct — полная замена записи: незаданные поля откатываются
// к текущему значению.
func (s *Service) UpdateProduct(caller domain.Identity, id string, in ChangeInput) (domain.Product, error) {
	return s.apply(caller, id, in)
}

// PatchProduct — частичное обновление: меняются только переданные поля.
func (s *Service) PatchProduct(caller domain.Identity, id string, in ChangeInput) (domain.Product, error) {
	return s.apply(caller, id, in)
}

// DeleteProduct удаляет товар. Требует аутентификации (любая роль).
func (s *Service) DeleteProduct(caller domain.Identity, id string) error {
	if !caller.Authenticated() {
		return domain.ErrUnauthenticated
	}

	if err := s.products.Delete(id); err != nil {
		return err
	}
	s.logger.WithField("product_id", id).Info("product deleted")
	return nil
}

func (s *Service) build(in CreateInput) (domain.Product, error) {
	// Статус в запросе необязателен: новый товар по умолчанию доступен.
	if in.Status == "" {
		in.Status = domain.ProductStatusAvailable
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Price:     in.Price,
		ListedAt:  in.ListedAt,
		Status:    in.Status,
		Version:   0,
		UpdatedAt: now,
	}
	if errs := product.ValidateInvariants(); len(errs) > 0 {
		return domain.Product{}, errs[0]
	}
	return product, nil
}

func (s *Service) apply(caller domain.Identity, id string, in ChangeInput) (domain.Product, error) {
	if !caller.Authenticated() {
		return domain.Product{}, domain.ErrUnauthenticated
	}

	product, err := s.products.Get(id)
	if err != nil {
		return domain.Product{}, err
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.ListedAt != nil {
		product.ListedAt = *in.ListedAt
	}
	product.UpdatedAt = time.Now().UTC()

	if errs := product.ValidateInvariants(); len(errs) > 0 {
		return domain.Product{}, errs[0]
	}

	if err := s.products.Save(product); err != nil {
		return domain.Product{}, fmt.Errorf("save product: %w", err)
	}

	// Версия инкрементируется хранилищем; перечитываем актуальную запись.
	return s.products.Get(id)
}
