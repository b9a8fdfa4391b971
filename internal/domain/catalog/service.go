// internal/domain/catalog/service.go
package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Service supplies product records. It stands in for the real catalog
// backend and serves a fixed seed set from memory.
type Service struct {
	products []Product
	byID     map[int]Product
}

// NewService creates a catalog service backed by the seed data.
func NewService() *Service {
	products := seedProducts()
	byID := make(map[int]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Service{
		products: products,
		byID:     byID,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Category string `form:"category"`
	Search   string `form:"search"`
}

// GetProducts retrieves products with optional category and search filters
func (s *Service) GetProducts(req *ProductListRequest) []Product {
	results := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if req.Category != "" && !strings.EqualFold(p.Category, req.Category) {
			continue
		}
		if req.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(req.Search)) {
			continue
		}
		results = append(results, p)
	}
	return results
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id int) (Product, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// GetCategories returns the distinct product categories, sorted
func (s *Service) GetCategories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, p := range s.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedProducts() []Product {
	return []Product{
		{ID: 1, Name: "Bananas", Price: price("1.29"), Category: "Fruits", ImageURL: "https://cdn.example.com/products/bananas.jpg", UnitLabel: "1 kg"},
		{ID: 2, Name: "Red Apples", Price: price("2.49"), Category: "Fruits", ImageURL: "https://cdn.example.com/products/red-apples.jpg", UnitLabel: "1 kg"},
		{ID: 3, Name: "Strawberries", Price: price("3.99"), Category: "Fruits", ImageURL: "https://cdn.example.com/products/strawberries.jpg", UnitLabel: "250 g"},
		{ID: 4, Name: "Avocado", Price: price("1.89"), Category: "Fruits", ImageURL: "https://cdn.example.com/products/avocado.jpg", UnitLabel: "1 pc"},
		{ID: 5, Name: "Roma Tomatoes", Price: price("2.19"), Category: "Vegetables", ImageURL: "https://cdn.example.com/products/roma-tomatoes.jpg", UnitLabel: "1 kg"},
		{ID: 6, Name: "Baby Spinach", Price: price("2.79"), Category: "Vegetables", ImageURL: "https://cdn.example.com/products/baby-spinach.jpg", UnitLabel: "200 g"},
		{ID: 7, Name: "Carrots", Price: price("1.49"), Category: "Vegetables", ImageURL: "https://cdn.example.com/products/carrots.jpg", UnitLabel: "1 kg"},
		{ID: 8, Name: "Broccoli", Price: price("2.29"), Category: "Vegetables", ImageURL: "https://cdn.example.com/products/broccoli.jpg", UnitLabel: "500 g"},
		{ID: 9, Name: "Whole Milk", Price: price("1.99"), Category: "Dairy", ImageURL: "https://cdn.example.com/products/whole-milk.jpg", UnitLabel: "1 L"},
		{ID: 10, Name: "Greek Yogurt", Price: price("3.49"), Category: "Dairy", ImageURL: "https://cdn.example.com/products/greek-yogurt.jpg", UnitLabel: "500 g"},
		{ID: 11, Name: "Cheddar Cheese", Price: price("4.99"), Category: "Dairy", ImageURL: "https://cdn.example.com/products/cheddar-cheese.jpg", UnitLabel: "250 g"},
		{ID: 12, Name: "Free-Range Eggs", Price: price("3.29"), Category: "Dairy", ImageURL: "https://cdn.example.com/products/free-range-eggs.jpg", UnitLabel: "12 pcs"},
		{ID: 13, Name: "Sourdough Bread", Price: price("3.79"), Category: "Bakery", ImageURL: "https://cdn.example.com/products/sourdough-bread.jpg", UnitLabel: "1 loaf"},
		{ID: 14, Name: "Croissants", Price: price("4.49"), Category: "Bakery", ImageURL: "https://cdn.example.com/products/croissants.jpg", UnitLabel: "4 pcs"},
		{ID: 15, Name: "Chicken Breast", Price: price("7.99"), Category: "Meat", ImageURL: "https://cdn.example.com/products/chicken-breast.jpg", UnitLabel: "1 kg"},
		{ID: 16, Name: "Ground Beef", Price: price("8.49"), Category: "Meat", ImageURL: "https://cdn.example.com/products/ground-beef.jpg", UnitLabel: "500 g"},
		{ID: 17, Name: "Atlantic Salmon", Price: price("12.99"), Category: "Seafood", ImageURL: "https://cdn.example.com/products/atlantic-salmon.jpg", UnitLabel: "400 g"},
		{ID: 18, Name: "Basmati Rice", Price: price("5.99"), Category: "Pantry", ImageURL: "https://cdn.example.com/products/basmati-rice.jpg", UnitLabel: "2 kg"},
		{ID: 19, Name: "Olive Oil", Price: price("8.99"), Category: "Pantry", ImageURL: "https://cdn.example.com/products/olive-oil.jpg", UnitLabel: "750 ml"},
		{ID: 20, Name: "Orange Juice", Price: price("2.99"), Category: "Beverages", ImageURL: "https://cdn.example.com/products/orange-juice.jpg", UnitLabel: "1 L"},
		{ID: 21, Name: "Sparkling Water", Price: price("1.19"), Category: "Beverages", ImageURL: "https://cdn.example.com/products/sparkling-water.jpg", UnitLabel: "1.5 L"},
		{ID: 22, Name: "Dark Chocolate", Price: price("2.89"), Category: "Snacks", ImageURL: "https://cdn.example.com/products/dark-chocolate.jpg", UnitLabel: "100 g"},
	}
}
