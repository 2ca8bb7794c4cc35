package repository

import (
	"context"
	"testing"
	"time"

	"turbo-warehouse/internal/domain"
)

func testProduct(sku string) *domain.Product {
	return &domain.Product{
		Name:        "Wireless Mouse",
		SKU:         sku,
		Category:    "accessories",
		Barcode:     "4006381333931",
		Quantity:    12,
		Price:       29.99,
		Location:    "A-03-2",
		Status:      domain.ProductInStock,
		Description: "2.4GHz wireless mouse",
		Supplier:    "Acme Supplies",
	}
}

func TestCreateProductRoundTrip(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := testProduct("MOUSE-1")
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	if product.ID == 0 {
		t.Fatal("expected generated product id")
	}

	got, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("failed to find product: %v", err)
	}
	if got.SKU != "MOUSE-1" || got.Price != 29.99 || got.Quantity != 12 {
		t.Errorf("unexpected product: %+v", got)
	}
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	if err := repo.Create(ctx, testProduct("MOUSE-1")); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	err := repo.Create(ctx, testProduct("MOUSE-1"))
	if err != ErrProductAlreadyExists {
		t.Fatalf("expected ErrProductAlreadyExists, got %v", err)
	}
}

func TestUpdateProductUnknownIDReturnsNotFound(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)

	product := testProduct("MOUSE-1")
	product.ID = 999999
	if err := repo.Update(context.Background(), product); err != ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestDeleteProductUnknownIDReturnsNotFound(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)

	if err := repo.Delete(context.Background(), 999999); err != ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestSearchProductsMatchesNameSKUAndBarcode(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	mouse := testProduct("MOUSE-1")
	if err := repo.Create(ctx, mouse); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	keyboard := testProduct("KEYB-1")
	keyboard.Name = "Mechanical Keyboard"
	keyboard.Barcode = "5901234123457"
	if err := repo.Create(ctx, keyboard); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	cases := []struct {
		query string
		want  int64
	}{
		{"mouse", mouse.ID},     // case-insensitive name match
		{"KEYB", keyboard.ID},   // SKU match
		{"590123", keyboard.ID}, // barcode match
	}

	for _, tc := range cases {
		results, err := repo.Search(ctx, tc.query)
		if err != nil {
			t.Fatalf("search %q failed: %v", tc.query, err)
		}
		if len(results) != 1 || results[0].ID != tc.want {
			t.Errorf("search %q: expected single product %d, got %v", tc.query, tc.want, results)
		}
	}
}

func TestSearchProductsBlankQueryListsAll(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	if err := repo.Create(ctx, testProduct("MOUSE-1")); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	if err := repo.Create(ctx, testProduct("MOUSE-2")); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	results, err := repo.Search(ctx, "   ")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected all 2 products for blank query, got %d", len(results))
	}
}

func TestUserRepositoryIgnoresInactiveAccounts(t *testing.T) {
	resetTables(t)
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	user := &domain.User{
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		PasswordHash: "$2a$10$notarealhash",
		Role:         "user",
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	if _, err := repo.FindByEmail(ctx, "jane@example.com"); err != nil {
		t.Fatalf("failed to find active user: %v", err)
	}

	if _, err := testDB.Exec(`UPDATE users SET is_active = FALSE WHERE id = $1`, user.ID); err != nil {
		t.Fatalf("failed to deactivate user: %v", err)
	}

	if _, err := repo.FindByEmail(ctx, "jane@example.com"); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound for inactive user, got %v", err)
	}
	if _, err := repo.FindByID(ctx, user.ID); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound for inactive user, got %v", err)
	}

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("failed to list users: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("expected inactive users excluded from listing, got %d", len(users))
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	resetTables(t)
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	user := &domain.User{Name: "Jane", Email: "jane@example.com", PasswordHash: "h", Role: "user", IsActive: true, CreatedAt: time.Now()}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	dup := &domain.User{Name: "Other Jane", Email: "jane@example.com", PasswordHash: "h2", Role: "user", IsActive: true, CreatedAt: time.Now()}
	if err := repo.Create(ctx, dup); err != ErrUserAlreadyExists {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}
