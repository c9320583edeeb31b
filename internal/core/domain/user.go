package domain

import (
	"encoding/json"
	"time"
)

// CartItem is one line of a user's cart. There is at most one line per product.
// In JSON, "product" carries the resolved Product when one is attached and the
// bare product id otherwise.
type CartItem struct {
	ProductID  string
	Quantity   int
	TotalPrice float64
	Product    *Product // resolved on demand
}

type cartItemJSON struct {
	Product    json.RawMessage `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalPrice float64         `json:"total_price"`
}

func (c CartItem) MarshalJSON() ([]byte, error) {
	var ref any = c.ProductID
	if c.Product != nil {
		ref = c.Product
	}
	raw, err := json.Marshal(ref)
	if err != nil {
		return nil, err
	}
	return json.Marshal(cartItemJSON{Product: raw, Quantity: c.Quantity, TotalPrice: c.TotalPrice})
}

func (c *CartItem) UnmarshalJSON(data []byte) error {
	var in cartItemJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*c = CartItem{Quantity: in.Quantity, TotalPrice: in.TotalPrice}
	if len(in.Product) == 0 || string(in.Product) == "null" {
		return nil
	}
	if in.Product[0] == '"' {
		return json.Unmarshal(in.Product, &c.ProductID)
	}
	var p Product
	if err := json.Unmarshal(in.Product, &p); err != nil {
		return err
	}
	c.ProductID, c.Product = p.ID, &p
	return nil
}

// User models a shopper account.
type User struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	MobileNumber string        `json:"mobile_number,omitempty"`
	Role         string        `json:"role"`
	Status       AccountStatus `json:"status"`
	IsDeleted    bool          `json:"isDeleted"`
	Cart         []CartItem    `json:"cart"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// CartLine returns the cart line for productID, if any.
func (u *User) CartLine(productID string) (CartItem, bool) {
	for _, item := range u.Cart {
		if item.ProductID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}

// UserPatch lists the fields an administrator may change on a user.
// Nil fields are left untouched.
type UserPatch struct {
	Name         *string
	MobileNumber *string
	Status       *AccountStatus
	IsDeleted    *bool
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.MobileNumber == nil && p.Status == nil && p.IsDeleted == nil
}
