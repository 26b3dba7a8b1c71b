package services

import (
	"context"
	"errors"

	"bloggy-api/apperror"
	"bloggy-api/authorization"
	"bloggy-api/database"
	"bloggy-api/helpers"
	"bloggy-api/lookups"
	"bloggy-api/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaxRate applied to the items price
var TaxRate = decimal.NewFromFloat(0.15)

// OrderService
type OrderService struct {
	Orders   OrderStore
	Products ProductStore
	Users    UserStore
	Lookups  LookupStore
	Tx       database.Transactor
}

// Prices of an order, rounded to cents
type Prices struct {
	Items    decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// CalcPrices sums up the order items
func CalcPrices(items []models.OrderItem, shipping float64) Prices {
	sum := decimal.Zero
	for _, i := range items {
		sum = sum.Add(decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity))))
	}

	p := Prices{
		Items:    sum.Round(2),
		Shipping: decimal.NewFromFloat(shipping).Round(2),
	}
	p.Tax = p.Items.Mul(TaxRate).Round(2)
	p.Total = p.Items.Add(p.Tax).Add(p.Shipping)
	return p
}

// Create places an order: stock is taken, prices are snapshotted and the cart is cleared
func (s OrderService) Create(ctx context.Context, cred authorization.Credentials, req *models.OrderRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validationf(err)
	}

	// merge lines of the same product
	quantities := make(map[primitive.ObjectID]int)
	var ids []primitive.ObjectID
	for _, i := range req.OrderItems {
		pid := helpers.ObjectID(i.Product)
		if _, ok := quantities[pid]; !ok {
			ids = append(ids, pid)
		}
		quantities[pid] += i.Quantity
	}

	o := &models.Order{
		ID:              primitive.NewObjectID(),
		User:            cred.UserID,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	}

	var shipping float64
	if req.DeliveryMethod != "" {
		did := helpers.ObjectID(req.DeliveryMethod)
		dm, err := s.Lookups.DeliveryMethod(ctx, did)
		if err != nil {
			return nil, err
		}
		o.DeliveryMethod = &dm.ID
		shipping = dm.Price
	}

	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		o.OrderItems = make([]models.OrderItem, 0, len(ids))
		taken := make(map[primitive.ObjectID]int)

		// hand back what was taken when a later line fails (no transaction on standalone servers)
		giveBack := func(cause error) error {
			errs := []error{cause}
			for pid, q := range taken {
				if err := s.Products.ReturnStock(ctx, pid, q); err != nil {
					errs = append(errs, helpers.WrapError(err, helpers.FuncName()))
				}
			}
			if len(errs) == 1 {
				return cause
			}
			return errors.Join(errs...)
		}

		for _, pid := range ids {
			p, err := s.Products.Get(ctx, pid)
			if err != nil {
				return giveBack(err)
			}

			q := quantities[pid]
			ok, err := s.Products.TakeStock(ctx, pid, q)
			if err != nil {
				return giveBack(err)
			}
			if !ok {
				return giveBack(apperror.Validation(models.ErrOutOfStock.Error() + ": " + p.Name))
			}
			taken[pid] = q

			var image string
			if len(p.Images) > 0 {
				image = p.Images[0]
			}
			o.OrderItems = append(o.OrderItems, models.OrderItem{
				Product:  p.ID,
				Name:     p.Name,
				Image:    image,
				Price:    p.Price,
				Quantity: q,
			})
		}

		prices := CalcPrices(o.OrderItems, shipping)
		o.ItemsPrice = prices.Items.InexactFloat64()
		o.TaxPrice = prices.Tax.InexactFloat64()
		o.ShippingPrice = prices.Shipping.InexactFloat64()
		o.TotalPrice = prices.Total.InexactFloat64()
		o.Touch(now())

		if err := s.Orders.Create(ctx, o); err != nil {
			return giveBack(err)
		}

		return s.Users.ClearCart(ctx, cred.UserID)
	})
	if err != nil {
		return nil, err
	}

	return o, nil
}

// Get returns an order of the signed-in user (admins see all)
func (s OrderService) Get(ctx context.Context, cred authorization.Credentials, id string) (*models.Order, error) {
	oid, err := helpers.ParseID(lookups.EntityOrder, id)
	if err != nil {
		return nil, err
	}

	o, err := s.Orders.Get(ctx, oid)
	if err != nil {
		return nil, err
	}

	if !cred.CanModify(o.User) {
		// do not reveal foreign orders
		return nil, apperror.NotFound(lookups.EntityOrder, id)
	}

	return o, nil
}

// Mine lists the orders of the signed-in user, newest first
func (s OrderService) Mine(ctx context.Context, cred authorization.Credentials) ([]models.Order, error) {
	orders, err := s.Orders.ListByUser(ctx, cred.UserID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// Pay marks the order as paid; paying twice keeps the first payment date
func (s OrderService) Pay(ctx context.Context, cred authorization.Credentials, id string) (*models.Order, error) {
	o, err := s.Get(ctx, cred, id)
	if err != nil {
		return nil, err
	}

	if o.IsPaid {
		return o, nil
	}

	at := now()
	if err = s.Orders.SetPaid(ctx, o.ID, at); err != nil {
		return nil, err
	}

	o.IsPaid = true
	o.PaidAt = &at
	o.UpdatedAt = at
	return o, nil
}

// Deliver marks a paid order as delivered (admins only)
func (s OrderService) Deliver(ctx context.Context, cred authorization.Credentials, id string) (*models.Order, error) {
	if err := cred.MustBeAdmin(); err != nil {
		return nil, err
	}

	o, err := s.Get(ctx, cred, id)
	if err != nil {
		return nil, err
	}

	if !o.IsPaid {
		return nil, models.ErrOrderNotPaid
	}
	if o.IsDelivered {
		return o, nil
	}

	at := now()
	if err = s.Orders.SetDelivered(ctx, o.ID, at); err != nil {
		return nil, err
	}

	o.IsDelivered = true
	o.DeliveredAt = &at
	o.UpdatedAt = at
	return o, nil
}
