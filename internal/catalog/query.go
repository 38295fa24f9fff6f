package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"smartshop/internal/models"
)

// Query parameter names understood by the catalog API.
const (
	ParamTitle      = "title"
	ParamPrice      = "price"
	ParamPriceMin   = "price_min"
	ParamPriceMax   = "price_max"
	ParamCategoryID = "categoryId"
	ParamOffset     = "offset"
	ParamLimit      = "limit"
)

// queryItem keeps parameters in insertion order; url.Values would sort them.
type queryItem struct {
	name  string
	value string
}

type queryItems []queryItem

func (q queryItems) add(name, value string) queryItems {
	return append(q, queryItem{name: name, value: value})
}

// addOptional appends the parameter only when value is present. A present
// empty string is kept and encodes as "name=".
func (q queryItems) addOptional(name string, value *string) queryItems {
	if value == nil {
		return q
	}
	return q.add(name, *value)
}

func (q queryItems) encode() string {
	parts := make([]string, 0, len(q))
	for _, item := range q {
		parts = append(parts, url.QueryEscape(item.name)+"="+url.QueryEscape(item.value))
	}
	return strings.Join(parts, "&")
}

func pageQuery(offset, limit int) queryItems {
	return queryItems{}.
		add(ParamOffset, strconv.Itoa(offset)).
		add(ParamLimit, strconv.Itoa(limit))
}

func titleQuery(title string) queryItems {
	if title == "" {
		return nil
	}
	return queryItems{}.add(ParamTitle, title)
}

func filterQuery(params models.FilterParameters) queryItems {
	return queryItems{}.
		addOptional(ParamPrice, params.Price).
		addOptional(ParamPriceMin, params.PriceMin).
		addOptional(ParamPriceMax, params.PriceMax).
		addOptional(ParamCategoryID, params.CategoryID)
}

// buildURL combines the fixed endpoint with the query items.
func buildURL(base *url.URL, items queryItems) string {
	u := *base
	u.RawQuery = items.encode()
	return u.String()
}
