package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mini-shop/internal/domain"
	"mini-shop/internal/telemetry"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CategoryStore resolves category names to ids, creating missing ones.
type CategoryStore interface {
	ListActiveByShop(ctx context.Context, shopID string) ([]domain.Category, error)
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
}

// CSVImporter reads product sheets and upserts them into one shop.
//
// Expected headers: id, name, description, category, price, originalPrice,
// stock, coverImage, image, isRecommend, isOnSale, spec.name, spec.values.
// A row without a name continues the previous product and may add an image
// or a spec. Spec values are separated by "|".
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	categories CategoryStore
	shopID     string
	logger     *zap.Logger

	categoryIDs map[string]string
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryStore, shopID string, logger *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:     csvr,
		products:   products,
		categories: categories,
		shopID:     shopID,
		logger:     telemetry.OrNop(logger).Named("importer"),
	}
}

type csvRow struct {
	line     int
	id       string
	name     string
	desc     string
	category string
	price    string
	original string
	stock    string
	cover    string
	images   []string
	specs    []domain.ProductSpec
	recommend string
	onSale   string
}

// Run parses CSV rows and upserts the products they describe.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, errors.New("missing name column")
	}
	if err := i.loadCategories(ctx); err != nil {
		return 0, err
	}

	var (
		current  *csvRow
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		row := parseRow(record, index)
		if row == nil {
			continue
		}
		row.line = line

		if row.name != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows belong to the current product.
		if current != nil {
			current.images = append(current.images, row.images...)
			current.specs = append(current.specs, row.specs...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	i.logger.Info("import finished", zap.String("shop_id", i.shopID), zap.Int("products", imported))
	return imported, nil
}

func (i *CSVImporter) loadCategories(ctx context.Context) error {
	existing, err := i.categories.ListActiveByShop(ctx, i.shopID)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	i.categoryIDs = make(map[string]string, len(existing))
	for _, c := range existing {
		i.categoryIDs[c.Name] = c.ID
	}
	return nil
}

func (i *CSVImporter) categoryID(ctx context.Context, name string) (string, error) {
	if id, ok := i.categoryIDs[name]; ok {
		return id, nil
	}
	created, err := i.categories.Create(ctx, domain.Category{
		ShopID:    i.shopID,
		Name:      name,
		SortOrder: len(i.categoryIDs) + 1,
		IsActive:  true,
	})
	if err != nil {
		return "", fmt.Errorf("create category %q: %w", name, err)
	}
	i.categoryIDs[name] = created.ID
	i.logger.Info("category created", zap.String("name", name), zap.String("id", created.ID))
	return created.ID, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.category == "" || row.price == "" {
		return fmt.Errorf("line %d: product %q needs category and price", row.line, row.name)
	}
	if row.id != "" && len(row.id) != 36 {
		return fmt.Errorf("line %d: invalid id %q", row.line, row.id)
	}
	price, err := decimal.NewFromString(row.price)
	if err != nil || price.IsNegative() {
		return fmt.Errorf("line %d: invalid price %q", row.line, row.price)
	}

	p := domain.Product{
		ID:          row.id,
		ShopID:      i.shopID,
		Name:        row.name,
		Description: row.desc,
		Price:       price,
		CoverImage:  row.cover,
		Images:      row.images,
		Specs:       row.specs,
		IsRecommend: parseBool(row.recommend, false),
		IsOnSale:    parseBool(row.onSale, true),
	}
	if p.CoverImage == "" && len(p.Images) > 0 {
		p.CoverImage = p.Images[0]
	}
	if row.original != "" {
		original, err := decimal.NewFromString(row.original)
		if err != nil {
			return fmt.Errorf("line %d: invalid originalPrice %q", row.line, row.original)
		}
		p.OriginalPrice = &original
	}
	if row.stock != "" {
		stock, err := strconv.Atoi(row.stock)
		if err != nil || stock < 0 {
			return fmt.Errorf("line %d: invalid stock %q", row.line, row.stock)
		}
		p.Stock = stock
	}

	p.CategoryID, err = i.categoryID(ctx, row.category)
	if err != nil {
		return err
	}

	if _, err := i.products.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.name, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	row := &csvRow{
		id:       pick(record, index, "id"),
		name:     pick(record, index, "name"),
		desc:     pick(record, index, "description"),
		category: pick(record, index, "category"),
		price:    pick(record, index, "price"),
		original: pick(record, index, "originalPrice"),
		stock:    pick(record, index, "stock"),
		cover:    pick(record, index, "coverImage"),
		recommend: pick(record, index, "isRecommend"),
		onSale:   pick(record, index, "isOnSale"),
	}
	if image := pick(record, index, "image"); image != "" {
		row.images = []string{image}
	}
	if specName := pick(record, index, "spec.name"); specName != "" {
		var values []string
		for _, v := range strings.Split(pick(record, index, "spec.values"), "|") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		row.specs = []domain.ProductSpec{{Name: specName, Values: values}}
	}
	if row.name == "" && len(row.images) == 0 && len(row.specs) == 0 {
		return nil
	}
	return row
}

func parseBool(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
