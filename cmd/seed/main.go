package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/domain"
	"github.com/vladislavdragonenkov/ims/internal/storage/postgres"
)

const seedTimeout = 30 * time.Second

var (
	adjectives = []string{"steel", "brass", "oak", "carbon", "ceramic", "copper", "matte", "polished"}
	nouns      = []string{"bolt", "bracket", "valve", "gear", "bearing", "coupling", "flange", "spindle"}
)

// randomProduct генерирует товар с ценой 50–500 и датой выставления
// в пределах последнего года.
func randomProduct(rng *rand.Rand, now time.Time) domain.Product {
	name := fmt.Sprintf("%s %s #%03d",
		adjectives[rng.Intn(len(adjectives))],
		nouns[rng.Intn(len(nouns))],
		rng.Intn(1000),
	)
	price := 50 + rng.Float64()*450
	listedAt := now.Add(-time.Duration(rng.Intn(365*24)) * time.Hour)

	return domain.Product{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     float64(int(price*100)) / 100,
		ListedAt:  listedAt,
		Status:    domain.ProductStatusAvailable,
		UpdatedAt: now,
	}
}

func main() {
	var (
		count int
		dsn   string
		seed  int64
	)

	flag.IntVar(&count, "count", 50, "number of products to create")
	flag.StringVar(&dsn, "dsn", "", "PostgreSQL DSN (fallback: IMS_POSTGRES_DSN)")
	flag.Int64Var(&seed, "seed", 0, "random seed (0=time-based)")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	logger := log.WithField("component", "seed")

	if strings.TrimSpace(dsn) == "" {
		dsn = strings.TrimSpace(os.Getenv("IMS_POSTGRES_DSN"))
	}
	if dsn == "" {
		logger.Fatal("IMS_POSTGRES_DSN (or -dsn) is required")
	}
	if count <= 0 {
		logger.Fatal("-count must be positive")
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		logger.WithError(err).Fatal("open postgres store")
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.WithError(err).Fatal("ensure schema")
	}

	now := time.Now().UTC()
	products := make([]domain.Product, 0, count)
	for i := 0; i < count; i++ {
		products = append(products, randomProduct(rng, now))
	}

	if err := postgres.NewProductRepository(store).CreateBatch(products); err != nil {
		logger.WithError(err).Fatal("seed products")
	}

	logger.WithFields(log.Fields{"count": count, "seed": seed}).Info("catalog seeded")
}
