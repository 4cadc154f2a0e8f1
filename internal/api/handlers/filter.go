package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// parseFilter reads the ledger filter from the query string. List params may
// be repeated or comma separated:
//
//	?stores=Chicago&stores=Dallas
//	?stores=Chicago,Dallas
func parseFilter(c *gin.Context) (domain.LedgerFilter, error) {
	filter := domain.LedgerFilter{
		Stores:     queryList(c, "stores", "store"),
		Categories: queryList(c, "categories", "category"),
		Products:   queryList(c, "products", "product"),
	}

	var err error
	if filter.From, err = queryDate(c, "from"); err != nil {
		return domain.LedgerFilter{}, err
	}
	if filter.To, err = queryDate(c, "to"); err != nil {
		return domain.LedgerFilter{}, err
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return domain.LedgerFilter{}, fmt.Errorf("to (%s) is before from (%s)", filter.To.Format(dateLayout), filter.From.Format(dateLayout))
	}
	return filter, nil
}

// queryList flattens every value of the given params, dropping blanks and duplicates.
func queryList(c *gin.Context, params ...string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, param := range params {
		for _, raw := range c.QueryArray(param) {
			for _, part := range strings.Split(raw, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				if _, ok := seen[part]; ok {
					continue
				}
				seen[part] = struct{}{}
				out = append(out, part)
			}
		}
	}
	return out
}

func queryDate(c *gin.Context, param string) (time.Time, error) {
	value := strings.TrimSpace(c.Query(param))
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD, got %q", param, value)
	}
	return t, nil
}

// queryFloat overwrites dst when param is present.
func queryFloat(c *gin.Context, param string, dst *float64) error {
	value := strings.TrimSpace(c.Query(param))
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%s must be a number, got %q", param, value)
	}
	*dst = f
	return nil
}

func queryInt(c *gin.Context, param string) (int, error) {
	value := strings.TrimSpace(c.Query(param))
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", param, value)
	}
	return n, nil
}

// parseParams overlays query overrides on the configured inventory params.
func parseParams(c *gin.Context, base domain.InventoryParams) (domain.InventoryParams, error) {
	params := base
	fields := []struct {
		name string
		dst  *float64
	}{
		{"order_cost", &params.OrderCost},
		{"holding_cost", &params.HoldingCost},
		{"lead_time", &params.LeadTimeDays},
		{"service_z", &params.ServiceZ},
		{"understock_cost", &params.UnderstockCost},
		{"overstock_cost", &params.OverstockCost},
	}
	for _, f := range fields {
		if err := queryFloat(c, f.name, f.dst); err != nil {
			return domain.InventoryParams{}, err
		}
	}
	return params, nil
}
