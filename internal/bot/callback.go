package bot

import (
	"fmt"
	"strconv"
	"strings"
)

type callbackKind int

const (
	callbackNoop callbackKind = iota
	callbackCategory
	callbackProduct
	callbackAdd
	callbackRemove
	callbackQty
	callbackPage
	callbackCheckoutStart
	callbackCartView
)

type callback struct {
	kind  callbackKind
	id    int64
	delta int
	page  int
}

// parseCallback разбирает payload кнопки:
// cat:<id>, prd:<id>, add:<id>, rem:<id>, qty:<id>:<±delta>, page:cat:<id>:<page>,
// checkout:start, cart:view, noop
func parseCallback(data string) (callback, error) {
	parts := strings.Split(data, ":")

	switch {
	case data == "noop":
		return callback{kind: callbackNoop}, nil
	case data == "checkout:start":
		return callback{kind: callbackCheckoutStart}, nil
	case data == "cart:view":
		return callback{kind: callbackCartView}, nil
	case len(parts) == 2:
		kinds := map[string]callbackKind{
			"cat": callbackCategory,
			"prd": callbackProduct,
			"add": callbackAdd,
			"rem": callbackRemove,
		}
		kind, ok := kinds[parts[0]]
		if !ok {
			break
		}
		id, ok := parseID(parts[1])
		if !ok {
			break
		}
		return callback{kind: kind, id: id}, nil
	case len(parts) == 3 && parts[0] == "qty":
		id, ok := parseID(parts[1])
		if !ok {
			break
		}
		// количество в корзине - INTEGER, шаг за его пределами не принимаем
		delta, err := strconv.ParseInt(parts[2], 10, 32)
		if err != nil {
			break
		}
		return callback{kind: callbackQty, id: id, delta: int(delta)}, nil
	case len(parts) == 4 && parts[0] == "page" && parts[1] == "cat":
		id, ok := parseID(parts[2])
		if !ok {
			break
		}
		page, ok := parseID(parts[3])
		if !ok {
			break
		}
		return callback{kind: callbackPage, id: id, page: int(page)}, nil
	}
	return callback{}, fmt.Errorf("%w: %q", ErrUnknownAction, data)
}

// parseID принимает только десятичные цифры без знака
func parseID(s string) (int64, bool) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func categoryData(id int64) string          { return fmt.Sprintf("cat:%d", id) }
func productData(id int64) string           { return fmt.Sprintf("prd:%d", id) }
func addData(id int64) string               { return fmt.Sprintf("add:%d", id) }
func removeData(id int64) string            { return fmt.Sprintf("rem:%d", id) }
func qtyData(id int64, delta int) string    { return fmt.Sprintf("qty:%d:%d", id, delta) }
func pageData(catID int64, page int) string { return fmt.Sprintf("page:cat:%d:%d", catID, page) }

const (
	noopData          = "noop"
	cartViewData      = "cart:view"
	checkoutStartData = "checkout:start"
)
