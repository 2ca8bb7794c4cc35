package repository

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"testing"
	"time"

	"turbo-warehouse/internal/domain"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	_, err = testDB.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			sku VARCHAR(100) UNIQUE NOT NULL,
			category VARCHAR(100) NOT NULL DEFAULT '',
			barcode VARCHAR(100) NOT NULL DEFAULT '',
			quantity INTEGER NOT NULL DEFAULT 0,
			price NUMERIC(12, 2) NOT NULL DEFAULT 0,
			location VARCHAR(100) NOT NULL DEFAULT '',
			status VARCHAR(50) NOT NULL DEFAULT 'in-stock',
			description TEXT NOT NULL DEFAULT '',
			supplier VARCHAR(255) NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			order_number VARCHAR(50) NOT NULL DEFAULT '',
			customer_name VARCHAR(255) NOT NULL DEFAULT '',
			customer_email VARCHAR(255) NOT NULL DEFAULT '',
			customer_phone VARCHAR(50) NOT NULL DEFAULT '',
			customer_address TEXT NOT NULL DEFAULT '',
			pickup_point VARCHAR(255) NOT NULL DEFAULT '',
			comment TEXT NOT NULL DEFAULT '',
			status VARCHAR(50) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS order_items (
			order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id BIGINT NOT NULL,
			quantity INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'user',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS refresh_tokens (
			id UUID PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token VARCHAR(255) UNIQUE NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			revoked BOOLEAN NOT NULL DEFAULT FALSE
		)
	`)
	if err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

func resetTables(t *testing.T) {
	t.Helper()
	_, err := testDB.Exec(`TRUNCATE orders, order_items, products, users, refresh_tokens RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to reset tables: %v", err)
	}
}

func seedProduct(t *testing.T, name, sku string, price float64, quantity int) int64 {
	t.Helper()
	var id int64
	err := testDB.QueryRow(
		`INSERT INTO products (name, sku, price, quantity, category) VALUES ($1, $2, $3, $4, 'test') RETURNING id`,
		name, sku, price, quantity,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return id
}

func testOrder() *domain.Order {
	return &domain.Order{
		Customer: domain.Customer{
			Name:    "John Doe",
			Email:   "john@example.com",
			Phone:   "1234567890",
			Address: "123 Main St",
		},
		PickupPoint: "Store 1",
		Comment:     "leave at the door",
		Status:      domain.OrderPending,
		CreatedAt:   time.Now(),
	}
}

func lineSet(lines []domain.OrderLine) map[int64]int {
	set := make(map[int64]int, len(lines))
	for _, l := range lines {
		set[l.ProductID] = l.Quantity
	}
	return set
}

func detailLineSet(lines []domain.OrderDetailLine) map[int64]int {
	set := make(map[int64]int, len(lines))
	for _, l := range lines {
		set[l.ProductID] = l.Quantity
	}
	return set
}

func TestCreateOrderPreservesAllLines(t *testing.T) {
	resetTables(t)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	p1 := seedProduct(t, "Phone", "SKU-1", 100, 10)
	p2 := seedProduct(t, "Headphones", "SKU-2", 50, 10)
	p3 := seedProduct(t, "Tablet", "SKU-3", 200, 10)

	order := testOrder()
	items := []domain.OrderLine{
		{ProductID: p1, Quantity: 2},
		{ProductID: p2, Quantity: 1},
		{ProductID: p3, Quantity: 4},
	}

	if err := repo.Create(ctx, order, items); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	if order.ID == 0 {
		t.Fatal("expected generated order id")
	}
	if order.Number == "" {
		t.Fatal("expected generated order number")
	}

	// The returned id must be immediately usable for lookups
	got, lines, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("failed to find created order: %v", err)
	}

	if got.Customer.Name != "John Doe" {
		t.Errorf("expected customer name John Doe, got %s", got.Customer.Name)
	}
	if len(lines) != len(items) {
		t.Fatalf("expected %d lines, got %d", len(items), len(lines))
	}

	want := lineSet(items)
	gotSet := detailLineSet(lines)
	for productID, quantity := range want {
		if gotSet[productID] != quantity {
			t.Errorf("product %d: expected quantity %d, got %d", productID, quantity, gotSet[productID])
		}
	}
}

func TestUpdateOrderReplacesLineSet(t *testing.T) {
	resetTables(t)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	p1 := seedProduct(t, "Phone", "SKU-1", 100, 10)
	p2 := seedProduct(t, "Headphones", "SKU-2", 50, 10)
	p3 := seedProduct(t, "Tablet", "SKU-3", 200, 10)

	order := testOrder()
	if err := repo.Create(ctx, order, []domain.OrderLine{{ProductID: p1, Quantity: 2}, {ProductID: p2, Quantity: 1}}); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	newItems := []domain.OrderLine{{ProductID: p3, Quantity: 5}}
	order.Status = domain.OrderProcessing
	if err := repo.Update(ctx, order, newItems); err != nil {
		t.Fatalf("failed to update order: %v", err)
	}

	got, lines, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("failed to find updated order: %v", err)
	}

	// Replace, not merge: no residual lines from the prior set
	if len(lines) != 1 {
		t.Fatalf("expected exactly 1 line after replacement, got %d", len(lines))
	}
	if lines[0].ProductID != p3 || lines[0].Quantity != 5 {
		t.Errorf("expected line {%d 5}, got {%d %d}", p3, lines[0].ProductID, lines[0].Quantity)
	}
	if got.Status != domain.OrderProcessing {
		t.Errorf("expected status processing, got %s", got.Status)
	}
}

func TestUpdateOrderUnknownIDReturnsNotFound(t *testing.T) {
	resetTables(t)
	repo := NewOrderRepository(testDB)

	order := testOrder()
	order.ID = 999999
	err := repo.Update(context.Background(), order, nil)
	if err != ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestDeleteOrderRemovesAllLines(t *testing.T) {
	resetTables(t)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	p1 := seedProduct(t, "Phone", "SKU-1", 100, 10)

	order := testOrder()
	if err := repo.Create(ctx, order, []domain.OrderLine{{ProductID: p1, Quantity: 2}}); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	if err := repo.Delete(ctx, order.ID); err != nil {
		t.Fatalf("failed to delete order: %v", err)
	}

	if _, _, err := repo.FindByID(ctx, order.ID); err != ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound after delete, got %v", err)
	}

	var remaining int
	if err := testDB.QueryRow(`SELECT COUNT(*) FROM order_items WHERE order_id = $1`, order.ID).Scan(&remaining); err != nil {
		t.Fatalf("failed to count remaining lines: %v", err)
	}
	if remaining != 0 {
		t.Errorf("expected no orphaned lines, found %d", remaining)
	}
}

func TestDeleteOrderUnknownIDReturnsNotFound(t *testing.T) {
	resetTables(t)
	repo := NewOrderRepository(testDB)

	if err := repo.Delete(context.Background(), 999999); err != ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestFindByIDUnknownIDReturnsNotFound(t *testing.T) {
	resetTables(t)
	repo := NewOrderRepository(testDB)

	_, _, err := repo.FindByID(context.Background(), 999999)
	if err != ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestListOrdersRecomputesTotalFromCurrentPrices(t *testing.T) {
	resetTables(t)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	p1 := seedProduct(t, "Phone", "SKU-1", 100, 10)
	p2 := seedProduct(t, "Headphones", "SKU-2", 50, 10)

	order := testOrder()
	items := []domain.OrderLine{{ProductID: p1, Quantity: 2}, {ProductID: p2, Quantity: 1}}
	if err := repo.Create(ctx, order, items); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	summaries, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("failed to list orders: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 order, got %d", len(summaries))
	}
	if summaries[0].Total != 250 {
		t.Errorf("expected total 250, got %v", summaries[0].Total)
	}
	if len(summaries[0].Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(summaries[0].Items))
	}

	// Totals are never stored: a price change is visible on the next read
	// without any order write
	if _, err := testDB.Exec(`UPDATE products SET price = 200 WHERE id = $1`, p1); err != nil {
		t.Fatalf("failed to change price: %v", err)
	}

	summaries, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("failed to list orders after price change: %v", err)
	}
	if summaries[0].Total != 450 {
		t.Errorf("expected total 450 after price change, got %v", summaries[0].Total)
	}
}

func TestFindByIDExcludesLinesWithDeletedProducts(t *testing.T) {
	resetTables(t)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	p1 := seedProduct(t, "Phone", "SKU-1", 100, 10)
	p2 := seedProduct(t, "Headphones", "SKU-2", 50, 10)

	order := testOrder()
	if err := repo.Create(ctx, order, []domain.OrderLine{{ProductID: p1, Quantity: 1}, {ProductID: p2, Quantity: 3}}); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	if _, err := testDB.Exec(`DELETE FROM products WHERE id = $1`, p2); err != nil {
		t.Fatalf("failed to delete product: %v", err)
	}

	// The unresolvable line degrades gracefully instead of failing the lookup
	_, lines, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("lookup failed after product deletion: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 resolvable line, got %d", len(lines))
	}
	if lines[0].ProductID != p1 {
		t.Errorf("expected remaining line to reference product %d, got %d", p1, lines[0].ProductID)
	}
}

func TestConcurrentUpdatesSerializeLineReplacement(t *testing.T) {
	resetTables(t)
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	p1 := seedProduct(t, "Phone", "SKU-1", 100, 10)
	p2 := seedProduct(t, "Headphones", "SKU-2", 50, 10)
	p3 := seedProduct(t, "Tablet", "SKU-3", 200, 10)
	p4 := seedProduct(t, "Monitor", "SKU-4", 300, 10)

	order := testOrder()
	if err := repo.Create(ctx, order, []domain.OrderLine{{ProductID: p1, Quantity: 1}}); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	setA := []domain.OrderLine{{ProductID: p1, Quantity: 7}, {ProductID: p2, Quantity: 8}}
	setB := []domain.OrderLine{{ProductID: p3, Quantity: 9}, {ProductID: p4, Quantity: 6}}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, set := range [][]domain.OrderLine{setA, setB} {
		wg.Add(1)
		go func(i int, set []domain.OrderLine) {
			defer wg.Done()
			o := testOrder()
			o.ID = order.ID
			errs[i] = repo.Update(ctx, o, set)
		}(i, set)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent update %d failed: %v", i, err)
		}
	}

	_, lines, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("failed to read final state: %v", err)
	}

	// The row lock must serialize the replacements: the final state is
	// exactly one caller's item set, never a union or interleaving
	got := detailLineSet(lines)
	matches := func(want []domain.OrderLine) bool {
		if len(got) != len(want) {
			return false
		}
		for _, l := range want {
			if got[l.ProductID] != l.Quantity {
				return false
			}
		}
		return true
	}

	if !matches(setA) && !matches(setB) {
		t.Fatalf("final line set is neither caller's set: %v", got)
	}
}
