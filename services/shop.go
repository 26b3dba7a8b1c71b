package services

import (
	"context"

	"bloggy-api/apperror"
	"bloggy-api/helpers"
	"bloggy-api/lookups"
	"bloggy-api/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShopService handles the wishlist and the cart of a user
type ShopService struct {
	Users    UserStore
	Products ProductStore
}

// ToggleWishlist adds the product to the wishlist or removes it
func (s ShopService) ToggleWishlist(ctx context.Context, userID primitive.ObjectID, productID string) (*models.WishlistResult, error) {
	pid, err := helpers.ParseID(lookups.EntityProduct, productID)
	if err != nil {
		return nil, err
	}

	if _, err = s.Products.Get(ctx, pid); err != nil {
		return nil, err
	}

	u, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	count := len(u.Wishlist)
	if helpers.ContainsID(u.Wishlist, pid) {
		changed, err := s.Users.RemoveWishlist(ctx, userID, pid)
		if err != nil {
			return nil, err
		}
		if changed {
			count--
		}
		return &models.WishlistResult{Wishlisted: false, Count: count}, nil
	}

	changed, err := s.Users.AddWishlist(ctx, userID, pid)
	if err != nil {
		return nil, err
	}
	if changed {
		count++
	}
	return &models.WishlistResult{Wishlisted: true, Count: count}, nil
}

// Wishlist lists the products on the wishlist (order of the list)
func (s ShopService) Wishlist(ctx context.Context, userID primitive.ObjectID) ([]models.ProductView, error) {
	u, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(u.Wishlist) == 0 {
		return []models.ProductView{}, nil
	}

	products, err := s.Products.ListByIDs(ctx, u.Wishlist)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.ProductView, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	// deleted products are skipped
	res := make([]models.ProductView, 0, len(products))
	for _, id := range u.Wishlist {
		if p, ok := byID[id]; ok {
			res = append(res, p)
		}
	}
	return res, nil
}

// AddToCart merges the quantity with an existing line, capped by the stock
func (s ShopService) AddToCart(ctx context.Context, userID primitive.ObjectID, req *models.CartItemRequest) (*models.Cart, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validationf(err)
	}

	pid := helpers.ObjectID(req.Product)
	p, err := s.Products.Get(ctx, pid)
	if err != nil {
		return nil, err
	}

	u, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	quantity := req.Quantity
	for _, item := range u.Cart {
		if item.Product == pid {
			quantity += item.Quantity
			break
		}
	}

	if p.StockCount <= 0 {
		return nil, models.ErrOutOfStock
	}
	if quantity > p.StockCount {
		quantity = p.StockCount
	}

	err = s.Users.SetCartItem(ctx, userID, models.CartItem{Product: pid, Quantity: quantity})
	if err != nil {
		return nil, err
	}

	return s.Cart(ctx, userID)
}

// SetQuantity changes the quantity of a cart line; 0 removes the line
func (s ShopService) SetQuantity(ctx context.Context, userID primitive.ObjectID, productID string, req *models.QuantityRequest) (*models.Cart, error) {
	pid, err := helpers.ParseID(lookups.EntityProduct, productID)
	if err != nil {
		return nil, err
	}

	if err = req.Validate(); err != nil {
		return nil, apperror.Validationf(err)
	}

	if *req.Quantity == 0 {
		return s.RemoveFromCart(ctx, userID, productID)
	}

	p, err := s.Products.Get(ctx, pid)
	if err != nil {
		return nil, err
	}
	if *req.Quantity > p.StockCount {
		return nil, models.ErrOutOfStock
	}

	err = s.Users.SetCartItem(ctx, userID, models.CartItem{Product: pid, Quantity: *req.Quantity})
	if err != nil {
		return nil, err
	}

	return s.Cart(ctx, userID)
}

// RemoveFromCart drops a cart line
func (s ShopService) RemoveFromCart(ctx context.Context, userID primitive.ObjectID, productID string) (*models.Cart, error) {
	pid, err := helpers.ParseID(lookups.EntityProduct, productID)
	if err != nil {
		return nil, err
	}

	if err = s.Users.RemoveCartItem(ctx, userID, pid); err != nil {
		return nil, err
	}

	return s.Cart(ctx, userID)
}

// ClearCart empties the cart
func (s ShopService) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	return s.Users.ClearCart(ctx, userID)
}

// Cart returns the cart with the products expanded and the subtotal
func (s ShopService) Cart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	u, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart := &models.Cart{Items: []models.CartLine{}}
	if len(u.Cart) == 0 {
		return cart, nil
	}

	ids := make([]primitive.ObjectID, 0, len(u.Cart))
	for _, item := range u.Cart {
		ids = append(ids, item.Product)
	}

	products, err := s.Products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.ProductView, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	subtotal := decimal.Zero
	for _, item := range u.Cart {
		p, ok := byID[item.Product]
		if !ok {
			// product deleted in the meantime
			continue
		}

		line := decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		subtotal = subtotal.Add(line)

		cart.Items = append(cart.Items, models.CartLine{
			Product: models.CartProduct{
				ID:         p.ID,
				Name:       p.Name,
				Slug:       p.Slug,
				Images:     p.Images,
				Price:      p.Price,
				StockCount: p.StockCount,
			},
			Quantity:  item.Quantity,
			LineTotal: line.InexactFloat64(),
		})
		cart.Count += item.Quantity
	}
	cart.Subtotal = subtotal.Round(2).InexactFloat64()

	return cart, nil
}
