package actions

import (
	"net/http"
	"net/url"

	"shopcartConsole/internal/console/form"
	"shopcartConsole/internal/console/query"
	"shopcartConsole/internal/console/render"
	"shopcartConsole/internal/models"
	"shopcartConsole/internal/services"
)

// Name identifies an operator action.
type Name string

const (
	CreateShopcart Name = "create-shopcart"
	ListShopcarts  Name = "list-shopcarts"
	ReadShopcart   Name = "read-shopcart"
	AddItem        Name = "add-item"
	UpdateItem     Name = "update-item"
	RetrieveItem   Name = "retrieve-item"
	DeleteItem     Name = "delete-item"
	DeleteShopcart Name = "delete-shopcart"
	ListItems      Name = "list-items"
	EmptyShopcart  Name = "empty-shopcart"
	PriceRange     Name = "price-range"
	Search         Name = "search"
	Clear          Name = "clear"
)

// Operator-facing messages.
const (
	MsgNeedUser        = "Please Input User ID"
	MsgNeedUserProduct = "Please fill userID and productID"
	MsgNeedPriceRange  = "Please fill userID, max price and min price"
	MsgServerError     = "Server error!"
	MsgItemDeleted     = "Item has been Deleted!"
	MsgShopcartDeleted = "Shopcart has been Deleted!"
	MsgShopcartEmptied = "Shopcart has been Emptied!"
	MsgNoShopcarts     = "No shopcarts found"
	MsgNoItems         = "No items in current shopcart"
	MsgNoItemsInRange  = "No items in the given price range"
	MsgNoSearchResults = "No results found"
)

// Button describes an action for front ends. Key is the letter of its
// Ctrl shortcut in the terminal console.
type Button struct {
	Name  Name
	Label string
	Key   rune
}

// Buttons lists every action in display order.
var Buttons = []Button{
	{CreateShopcart, "Create Shopcart", 'n'},
	{ListShopcarts, "List Shopcarts", 'l'},
	{ReadShopcart, "Read Shopcart", 'o'},
	{AddItem, "Add Item", 'a'},
	{UpdateItem, "Update Item", 'u'},
	{RetrieveItem, "Retrieve Item", 'r'},
	{DeleteItem, "Delete Item", 'd'},
	{DeleteShopcart, "Delete Shopcart", 'x'},
	{ListItems, "List Items", 't'},
	{EmptyShopcart, "Empty Shopcart", 'e'},
	{PriceRange, "Price Range", 'p'},
	{Search, "Search", 's'},
	{Clear, "Clear", 'k'},
}

type request struct {
	method string
	path   string
	body   any
}

type binding struct {
	require []form.Field
	missing string
	// local actions never reach the service
	local   func(r *render.Renderer)
	build   func(v form.Values) request
	success func(r *render.Renderer, res *services.Result) error
	failure func(r *render.Renderer, err error)
}

type shopcartPayload struct {
	UserID string `json:"user_id"`
}

func cartPath(v form.Values) string {
	return "/shopcarts/" + url.PathEscape(v.UserID)
}

func itemsPath(v form.Values) string {
	return cartPath(v) + "/items"
}

func itemPath(v form.Values) string {
	return itemsPath(v) + "/" + url.PathEscape(v.ProductID)
}

func clearWithMessage(r *render.Renderer, err error) {
	r.Failure(services.MessageOf(err), true)
}

func keepWithMessage(r *render.Renderer, err error) {
	r.Failure(services.MessageOf(err), false)
}

func fixedFailure(clearForm bool) func(*render.Renderer, error) {
	return func(r *render.Renderer, _ error) {
		r.Failure(MsgServerError, clearForm)
	}
}

func clearedWith(message string) func(*render.Renderer, *services.Result) error {
	return func(r *render.Renderer, _ *services.Result) error {
		r.Cleared(message)
		return nil
	}
}

func populateItem(r *render.Renderer, res *services.Result) error {
	item, err := res.Item()
	if err != nil {
		return err
	}
	r.Single(item)
	return nil
}

func itemTable(emptyMessage string) func(*render.Renderer, *services.Result) error {
	return func(r *render.Renderer, res *services.Result) error {
		items, err := res.Items()
		if err != nil {
			return err
		}
		r.Collection(items, emptyMessage)
		return nil
	}
}

func defaultBindings() map[Name]binding {
	return map[Name]binding{
		CreateShopcart: {
			build: func(v form.Values) request {
				return request{http.MethodPost, "/shopcarts", shopcartPayload{UserID: v.UserID}}
			},
			success: func(r *render.Renderer, res *services.Result) error {
				cart, err := res.Shopcart()
				if err != nil {
					return err
				}
				r.Single(cart.AsItem())
				return nil
			},
			failure: clearWithMessage,
		},
		ListShopcarts: {
			build: func(form.Values) request {
				return request{http.MethodGet, "/shopcarts", nil}
			},
			success: func(r *render.Renderer, res *services.Result) error {
				carts, err := res.Shopcarts()
				if err != nil {
					return err
				}
				r.Collection(models.FlattenAll(carts), MsgNoShopcarts)
				return nil
			},
			failure: clearWithMessage,
		},
		ReadShopcart: {
			require: []form.Field{form.UserID},
			missing: MsgNeedUser,
			build: func(v form.Values) request {
				return request{http.MethodGet, cartPath(v), nil}
			},
			success: func(r *render.Renderer, res *services.Result) error {
				cart, err := res.Shopcart()
				if err != nil {
					return err
				}
				r.Collection(cart.Flatten(), MsgNoItems)
				return nil
			},
			failure: clearWithMessage,
		},
		AddItem: {
			require: []form.Field{form.UserID},
			missing: MsgNeedUser,
			build: func(v form.Values) request {
				return request{http.MethodPost, itemsPath(v), v.ItemPayload()}
			},
			success: populateItem,
			failure: keepWithMessage,
		},
		UpdateItem: {
			build: func(v form.Values) request {
				return request{http.MethodPut, itemPath(v), v.ItemPayload()}
			},
			success: populateItem,
			failure: keepWithMessage,
		},
		RetrieveItem: {
			require: []form.Field{form.UserID, form.ProductID},
			missing: MsgNeedUserProduct,
			build: func(v form.Values) request {
				return request{http.MethodGet, itemPath(v), nil}
			},
			success: populateItem,
			failure: clearWithMessage,
		},
		DeleteItem: {
			require: []form.Field{form.UserID, form.ProductID},
			missing: MsgNeedUserProduct,
			build: func(v form.Values) request {
				return request{http.MethodDelete, itemPath(v), nil}
			},
			success: clearedWith(MsgItemDeleted),
			failure: fixedFailure(false),
		},
		DeleteShopcart: {
			build: func(v form.Values) request {
				return request{http.MethodDelete, cartPath(v), nil}
			},
			success: clearedWith(MsgShopcartDeleted),
			failure: fixedFailure(true),
		},
		ListItems: {
			build: func(v form.Values) request {
				return request{http.MethodGet, itemsPath(v), nil}
			},
			success: itemTable(MsgNoItems),
			failure: fixedFailure(false),
		},
		EmptyShopcart: {
			require: []form.Field{form.UserID},
			missing: MsgNeedUser,
			build: func(v form.Values) request {
				return request{http.MethodPut, cartPath(v) + "/empty", nil}
			},
			success: clearedWith(MsgShopcartEmptied),
			failure: fixedFailure(false),
		},
		PriceRange: {
			require: []form.Field{form.UserID, form.MaxPrice, form.MinPrice},
			missing: MsgNeedPriceRange,
			build: func(v form.Values) request {
				q := query.Build(
					query.Filter{Name: "max-price", Value: v.MaxPrice},
					query.Filter{Name: "min-price", Value: v.MinPrice},
				)
				return request{http.MethodGet, query.WithQuery(itemsPath(v), q), nil}
			},
			success: itemTable(MsgNoItemsInRange),
			failure: clearWithMessage,
		},
		Search: {
			build: func(v form.Values) request {
				q := query.Build(
					query.Filter{Name: "name", Value: v.Name},
					query.Filter{Name: "UserID", Value: v.UserID},
					query.Filter{Name: "price", Value: v.CatalogPrice == "true"},
				)
				return request{http.MethodGet, query.WithQuery("/pets", q), nil}
			},
			success: itemTable(MsgNoSearchResults),
			failure: keepWithMessage,
		},
		Clear: {
			local: func(r *render.Renderer) {
				r.Reset()
			},
		},
	}
}
