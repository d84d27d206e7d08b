package storefront

import "fmt"

// FetchError covers network failures, timeouts and bad HTTP statuses
// while retrieving the search or product page for a sku.
type FetchError struct {
	Sku string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch sku %q: %s", e.Sku, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError means the page was retrieved but the expected stock
// indicator could not be located in it.
type ParseError struct {
	Sku    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse sku %q: %s", e.Sku, e.Reason)
}
