package cart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"smartshop/internal/models"
	apperrors "smartshop/pkg/errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store is the shopping cart. It holds the ordered line items in memory and
// writes the whole list to one JSON file after every mutation.
//
// A mutation is applied in memory even when the write fails; the write error
// is returned so the caller can report it.
type Store struct {
	path   string
	logger *zap.Logger

	mu    sync.Mutex
	items []models.CartItem
}

// NewStore creates a cart backed by the file at path and loads its contents.
// A missing or unreadable file yields an empty cart.
func NewStore(path string, logger *zap.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logger,
		items:  []models.CartItem{},
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("No saved cart, starting empty", zap.String("path", s.path))
		} else {
			s.logger.Warn("Failed to read saved cart, starting empty", zap.String("path", s.path), zap.Error(err))
		}
		return
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("Saved cart is corrupt, starting empty", zap.String("path", s.path), zap.Error(err))
		return
	}
	s.items = s.sanitize(items)
	s.logger.Info("Loaded saved cart", zap.Int("items", len(s.items)))
}

// sanitize drops lines that could not have been added and folds repeated
// product ids into their first line.
func (s *Store) sanitize(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	index := make(map[int]int, len(items))
	for i, item := range items {
		if err := validateItem(item, fmt.Sprintf("items[%d]", i)); err != nil {
			s.logger.Warn("Dropping invalid saved cart line", zap.Int("line", i), zap.Error(err))
			continue
		}
		if at, ok := index[item.Product.ID]; ok {
			out[at].Quantity += item.Quantity
			continue
		}
		index[item.Product.ID] = len(out)
		out = append(out, item)
	}
	return out
}

func validateItem(item models.CartItem, field string) error {
	if item.Product.ID == 0 {
		return apperrors.NewValidationError("product is required", field+".product.id")
	}
	if item.Quantity < 1 {
		return apperrors.NewValidationError("quantity must be at least 1", field+".quantity")
	}
	return nil
}

// AddItem merges the item into the line with the same product id, or appends
// it as a new line. An item without a product id or with a quantity below 1
// is rejected with a ValidationError and the cart is left unchanged.
func (s *Store) AddItem(item models.CartItem) error {
	if err := validateItem(item, "item"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := false
	for i := range s.items {
		if s.items[i].Product.ID == item.Product.ID {
			s.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item)
	}
	return s.persist()
}

// RemoveItem removes the line at index. It panics when index is out of range.
func (s *Store) RemoveItem(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		panic(fmt.Sprintf("cart: index %d out of range [0, %d)", index, len(s.items)))
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	return s.persist()
}

// ClearAll empties the cart.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []models.CartItem{}
	return s.persist()
}

// ReplaceAll replaces the cart contents, e.g. after the user reorders lines.
// Every line must be valid and product ids must be distinct; otherwise a
// ValidationError is returned and the cart is left unchanged.
func (s *Store) ReplaceAll(items []models.CartItem) error {
	seen := make(map[int]struct{}, len(items))
	for i, item := range items {
		field := fmt.Sprintf("items[%d]", i)
		if err := validateItem(item, field); err != nil {
			return err
		}
		if _, dup := seen[item.Product.ID]; dup {
			return apperrors.NewValidationError("product appears more than once", field+".product.id")
		}
		seen[item.Product.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]models.CartItem, len(items))
	copy(s.items, items)
	return s.persist()
}

// Items returns a copy of the cart lines in order.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// TotalCost is the sum of price x quantity over all lines.
func (s *Store) TotalCost() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalCost(s.items)
}

func totalCost(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(lineTotal(item))
	}
	return total
}

func lineTotal(item models.CartItem) decimal.Decimal {
	return decimal.NewFromInt(int64(item.Product.Price)).Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// SummaryText lists one "<title> - <quantity> pcs" line per item.
func (s *Store) SummaryText() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]string, 0, len(s.items))
	for _, item := range s.items {
		lines = append(lines, fmt.Sprintf("%s - %d pcs", item.Product.Title, item.Quantity))
	}
	return strings.Join(lines, "\n")
}

// ShareText is the shopping list text offered by the share action. Each
// block's price is the line total.
func (s *Store) ShareText() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	blocks := make([]string, 0, len(s.items))
	for _, item := range s.items {
		blocks = append(blocks, fmt.Sprintf("Title: %s\nQuantity: %d\nPrice: %s $",
			item.Product.Title, item.Quantity, lineTotal(item).String()))
	}
	return fmt.Sprintf("My Shopping List.\n%s\n\nTotal Cost: %s $",
		strings.Join(blocks, "\n\n"), totalCost(s.items).String())
}

// persist writes the whole list to a temp file and renames it over the cart
// file. Caller must hold s.mu.
func (s *Store) persist() error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return apperrors.NewStorageError("encode cart", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Error("Failed to create cart directory", zap.String("path", s.path), zap.Error(err))
		return apperrors.NewStorageError("write cart", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".cart-*.json")
	if err != nil {
		s.logger.Error("Failed to write cart", zap.String("path", s.path), zap.Error(err))
		return apperrors.NewStorageError("write cart", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		s.logger.Error("Failed to write cart", zap.String("path", s.path), zap.Error(err))
		return apperrors.NewStorageError("write cart", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStorageError("write cart", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		s.logger.Error("Failed to replace cart file", zap.String("path", s.path), zap.Error(err))
		return apperrors.NewStorageError("write cart", err)
	}
	return nil
}
