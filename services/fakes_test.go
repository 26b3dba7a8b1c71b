package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bloggy-api/apperror"
	"bloggy-api/commenttree"
	"bloggy-api/lookups"
	"bloggy-api/models"
	"bloggy-api/query"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memDB is an in-memory stand-in for the MongoDB repositories.
// Every store method takes the lock, like a single-document operation.
type memDB struct {
	mu       sync.Mutex
	users    map[primitive.ObjectID]*models.User
	articles map[primitive.ObjectID]*models.Article
	comments map[primitive.ObjectID]*models.Comment
	products map[primitive.ObjectID]*models.Product
	orders   map[primitive.ObjectID]*models.Order
	books    map[primitive.ObjectID]*models.Book
	lookups  map[string][]models.Lookup
	delivery []models.DeliveryMethod
	ads      []models.Commercial

	lastQuery *query.Query
}

func newMemDB() *memDB {
	return &memDB{
		users:    map[primitive.ObjectID]*models.User{},
		articles: map[primitive.ObjectID]*models.Article{},
		comments: map[primitive.ObjectID]*models.Comment{},
		products: map[primitive.ObjectID]*models.Product{},
		orders:   map[primitive.ObjectID]*models.Order{},
		books:    map[primitive.ObjectID]*models.Book{},
		lookups:  map[string][]models.Lookup{},
	}
}

func ids(list []primitive.ObjectID) []primitive.ObjectID {
	return append([]primitive.ObjectID{}, list...)
}

func without(list []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	res := make([]primitive.ObjectID, 0, len(list))
	found := false
	for _, v := range list {
		if v == id {
			found = true
			continue
		}
		res = append(res, v)
	}
	return res, found
}

func contains(list []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

// users

type memUsers struct{ db *memDB }

func copyUser(u *models.User) *models.User {
	c := *u
	c.StarredArticles = ids(u.StarredArticles)
	c.Wishlist = ids(u.Wishlist)
	c.Cart = append([]models.CartItem{}, u.Cart...)
	return &c
}

func (s memUsers) Create(_ context.Context, u *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, v := range s.db.users {
		if v.Email == u.Email {
			return apperror.Conflict("duplicate key")
		}
	}
	s.db.users[u.ID] = copyUser(u)
	return nil
}

func (s memUsers) user(id primitive.ObjectID) (*models.User, error) {
	u, ok := s.db.users[id]
	if !ok {
		return nil, apperror.NotFound(lookups.EntityUser, id.Hex())
	}
	return u, nil
}

func (s memUsers) Get(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, err := s.user(id)
	if err != nil {
		return nil, err
	}
	return copyUser(u), nil
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, apperror.NotFound(lookups.EntityUser, email)
}

func (s memUsers) Credentials(_ context.Context, id primitive.ObjectID) (*models.Credentials, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, err := s.user(id)
	if err != nil {
		return nil, err
	}
	return &models.Credentials{ID: u.ID, Role: u.Role, PasswordChangedAt: u.PasswordChangedAt}, nil
}

func (s memUsers) Profile(_ context.Context, id primitive.ObjectID) (*models.UserProfile, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, err := s.user(id)
	if err != nil {
		return nil, err
	}
	return &models.UserProfile{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL, TotalStars: u.TotalStars, CreatedAt: u.CreatedAt}, nil
}

func (s memUsers) SetAvatar(_ context.Context, id primitive.ObjectID, url string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, err := s.user(id)
	if err != nil {
		return err
	}
	u.AvatarURL = url
	return nil
}

func (s memUsers) SetPassword(_ context.Context, id primitive.ObjectID, hash string, changedAt time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, err := s.user(id)
	if err != nil {
		return err
	}
	u.Password = hash
	u.PasswordChangedAt = &changedAt
	return nil
}

func (s memUsers) AddStarred(_ context.Context, id primitive.ObjectID, articleID primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, err := s.user(id)
	if err != nil {
		return err
	}
	if !contains(u.StarredArticles, articleID) {
		u.StarredArticles = append(u.StarredArticles, articleID)
	}
	return nil
}

func (s memUsers) RemoveStarred(_ context.Context, id primitive.ObjectID, articleID primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if u, ok := s.db.users[id]; ok {
		u.StarredArticles, _ = without(u.StarredArticles, articleID)
	}
	return nil
}

func (s memUsers) RemoveStarredEverywhere(_ context.Context, articleID primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		u.StarredArticles, _ = without(u.StarredArticles, articleID)
	}
	return nil
}

func (s memUsers) IncTotalStars(_ context.Context, id primitive.ObjectID, delta int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if u, ok := s.db.users[id]; ok {
		u.TotalStars += delta
	}
	return nil
}

func (s memUsers) AddWishlist(_ context.Context, id primitive.ObjectID, productID primitive.ObjectID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, err := s.user(id)
	if err != nil {
		return false, err
	}
	if contains(u.Wishlist, productID) {
		return false, nil
	}
	u.Wishlist = append(u.Wishlist, productID)
	return true, nil
}

func (s memUsers) RemoveWishlist(_ context.Context, id primitive.ObjectID, productID primitive.ObjectID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, err := s.user(id)
	if err != nil {
		return false, err
	}
	var found bool
	u.Wishlist, found = without(u.Wishlist, productID)
	return found, nil
}

func (s memUsers) SetCartItem(_ context.Context, id primitive.ObjectID, item models.CartItem) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, err := s.user(id)
	if err != nil {
		return err
	}
	for i := range u.Cart {
		if u.Cart[i].Product == item.Product {
			u.Cart[i].Quantity = item.Quantity
			return nil
		}
	}
	u.Cart = append(u.Cart, item)
	return nil
}

func (s memUsers) RemoveCartItem(_ context.Context, id primitive.ObjectID, productID primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, err := s.user(id)
	if err != nil {
		return err
	}
	cart := u.Cart[:0]
	for _, item := range u.Cart {
		if item.Product != productID {
			cart = append(cart, item)
		}
	}
	u.Cart = cart
	return nil
}

func (s memUsers) ClearCart(_ context.Context, id primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, err := s.user(id)
	if err != nil {
		return err
	}
	u.Cart = []models.CartItem{}
	return nil
}

// articles

type memArticles struct{ db *memDB }

func copyArticle(a *models.Article) *models.Article {
	c := *a
	c.Tags = ids(a.Tags)
	c.Comments = ids(a.Comments)
	c.StarredBy = ids(a.StarredBy)
	return &c
}

func (s memArticles) article(id primitive.ObjectID) (*models.Article, error) {
	a, ok := s.db.articles[id]
	if !ok {
		return nil, apperror.NotFound(lookups.EntityArticle, id.Hex())
	}
	return a, nil
}

func (s memArticles) view(a *models.Article) models.ArticleView {
	v := models.ArticleView{
		ID:                a.ID,
		Title:             a.Title,
		Summary:           a.Summary,
		Content:           a.Content,
		ContentHTML:       a.ContentHTML,
		CoverImageURL:     a.CoverImageURL,
		ReadTimeInMinutes: a.ReadTimeInMinutes,
		TotalCommentCount: a.TotalCommentCount,
		StarsCount:        a.StarsCount,
		Timestamps:        a.Timestamps,
		Tags:              []models.Lookup{},
	}
	if u, ok := s.db.users[a.Author]; ok {
		v.Author = &models.UserRef{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
	}
	return v
}

func (s memArticles) List(_ context.Context, q *query.Query) ([]models.ArticleView, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.lastQuery = q
	var res []models.ArticleView
	for _, a := range s.db.articles {
		res = append(res, s.view(a))
	}
	return res, int64(len(res)), nil
}

func (s memArticles) ListByIDs(_ context.Context, list []primitive.ObjectID) ([]models.ArticleView, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	res := []models.ArticleView{}
	for _, id := range list {
		if a, ok := s.db.articles[id]; ok {
			res = append(res, s.view(a))
		}
	}
	return res, nil
}

func (s memArticles) Get(_ context.Context, id primitive.ObjectID) (*models.Article, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, err := s.article(id)
	if err != nil {
		return nil, err
	}
	return copyArticle(a), nil
}

func (s memArticles) View(_ context.Context, id primitive.ObjectID) (*models.ArticleView, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, err := s.article(id)
	if err != nil {
		return nil, err
	}
	v := s.view(a)
	return &v, nil
}

func (s memArticles) Create(_ context.Context, a *models.Article) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.articles[a.ID] = copyArticle(a)
	return nil
}

func (s memArticles) Update(_ context.Context, a *models.Article) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cur, err := s.article(a.ID)
	if err != nil {
		return err
	}
	cur.Title = a.Title
	cur.Summary = a.Summary
	cur.Content = a.Content
	cur.ContentHTML = a.ContentHTML
	cur.CoverImageURL = a.CoverImageURL
	cur.ReadTimeInMinutes = a.ReadTimeInMinutes
	cur.Category = a.Category
	cur.Tags = ids(a.Tags)
	cur.UpdatedAt = a.UpdatedAt
	return nil
}

func (s memArticles) Delete(_ context.Context, id primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, err := s.article(id); err != nil {
		return err
	}
	delete(s.db.articles, id)
	return nil
}

func (s memArticles) PushComment(_ context.Context, id primitive.ObjectID, commentID primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, err := s.article(id)
	if err != nil {
		return err
	}
	a.Comments = append(a.Comments, commentID)
	a.TotalCommentCount++
	return nil
}

func (s memArticles) PullComment(_ context.Context, id primitive.ObjectID, commentID primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if a, ok := s.db.articles[id]; ok {
		a.Comments, _ = without(a.Comments, commentID)
	}
	return nil
}

func (s memArticles) IncCommentCount(_ context.Context, id primitive.ObjectID, delta int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if a, ok := s.db.articles[id]; ok {
		a.TotalCommentCount += delta
	}
	return nil
}

func (s memArticles) AddStar(_ context.Context, id primitive.ObjectID, userID primitive.ObjectID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.articles[id]
	if !ok || contains(a.StarredBy, userID) {
		return false, nil
	}
	a.StarredBy = append(a.StarredBy, userID)
	a.StarsCount++
	return true, nil
}

func (s memArticles) RemoveStar(_ context.Context, id primitive.ObjectID, userID primitive.ObjectID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.articles[id]
	if !ok || !contains(a.StarredBy, userID) {
		return false, nil
	}
	a.StarredBy, _ = without(a.StarredBy, userID)
	a.StarsCount--
	return true, nil
}

// comments

type memComments struct{ db *memDB }

func copyComment(c *models.Comment) *models.Comment {
	cp := *c
	cp.Replies = ids(c.Replies)
	return &cp
}

func (s memComments) Create(_ context.Context, c *models.Comment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.comments[c.ID] = copyComment(c)
	return nil
}

func (s memComments) Get(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.db.comments[id]
	if !ok {
		return nil, apperror.NotFound(lookups.EntityComment, id.Hex())
	}
	return copyComment(c), nil
}

func (s memComments) UpdateText(_ context.Context, id primitive.ObjectID, text string, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.db.comments[id]
	if !ok {
		return apperror.NotFound(lookups.EntityComment, id.Hex())
	}
	c.Text = text
	c.UpdatedAt = at
	return nil
}

func (s memComments) sorted(articleID primitive.ObjectID) []*models.Comment {
	var res []*models.Comment
	for _, c := range s.db.comments {
		if c.Article == articleID {
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID.Hex() < res[j].ID.Hex()
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res
}

func (s memComments) Thread(_ context.Context, articleID primitive.ObjectID) ([]commenttree.Node, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var nodes []commenttree.Node
	for _, c := range s.sorted(articleID) {
		nodes = append(nodes, commenttree.Node{ID: c.ID, Parent: c.Parent})
	}
	return nodes, nil
}

func (s memComments) DeleteMany(_ context.Context, list []primitive.ObjectID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for _, id := range list {
		if _, ok := s.db.comments[id]; ok {
			delete(s.db.comments, id)
			n++
		}
	}
	return n, nil
}

func (s memComments) DeleteByArticle(_ context.Context, articleID primitive.ObjectID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for id, c := range s.db.comments {
		if c.Article == articleID {
			delete(s.db.comments, id)
			n++
		}
	}
	return n, nil
}

func (s memComments) PushReply(_ context.Context, parentID primitive.ObjectID, replyID primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.db.comments[parentID]
	if !ok {
		return apperror.NotFound(lookups.EntityComment, parentID.Hex())
	}
	c.Replies = append(c.Replies, replyID)
	return nil
}

func (s memComments) PullReply(_ context.Context, parentID primitive.ObjectID, replyID primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if c, ok := s.db.comments[parentID]; ok {
		c.Replies, _ = without(c.Replies, replyID)
	}
	return nil
}

func (s memComments) view(c *models.Comment) models.CommentView {
	v := models.CommentView{ID: c.ID, Text: c.Text, Article: c.Article, Parent: c.Parent, Timestamps: c.Timestamps}
	if u, ok := s.db.users[c.Author]; ok {
		v.Author = &models.UserRef{ID: u.ID, Name: u.Name}
	}
	return v
}

func (s memComments) ListTopLevel(_ context.Context, articleID primitive.ObjectID, q *query.Query) ([]models.CommentView, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	all := s.sorted(articleID)
	var top []models.CommentView
	// newest first
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Parent == nil {
			top = append(top, s.view(all[i]))
		}
	}
	total := int64(len(top))
	from := int(q.Skip)
	if from > len(top) {
		from = len(top)
	}
	to := from + int(q.Limit)
	if to > len(top) {
		to = len(top)
	}
	return top[from:to], total, nil
}

func (s memComments) ListReplies(_ context.Context, articleID primitive.ObjectID) ([]models.CommentView, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var res []models.CommentView
	for _, c := range s.sorted(articleID) {
		if c.Parent != nil {
			res = append(res, s.view(c))
		}
	}
	return res, nil
}

// products

type memProducts struct{ db *memDB }

func copyProduct(p *models.Product) *models.Product {
	c := *p
	c.Images = append([]string{}, p.Images...)
	c.Reviews = append([]models.Review{}, p.Reviews...)
	return &c
}

func productView(p *models.Product) models.ProductView {
	return models.ProductView{
		ID: p.ID, Name: p.Name, Slug: p.Slug, Images: p.Images, Description: p.Description,
		Reviews: p.Reviews, Rating: p.Rating, NumReviews: p.NumReviews, IsFeatured: p.IsFeatured,
		Price: p.Price, StockCount: p.StockCount, User: p.User, Timestamps: p.Timestamps,
	}
}

func (s memProducts) product(id primitive.ObjectID) (*models.Product, error) {
	p, ok := s.db.products[id]
	if !ok {
		return nil, apperror.NotFound(lookups.EntityProduct, id.Hex())
	}
	return p, nil
}

func (s memProducts) List(_ context.Context, q *query.Query) ([]models.ProductView, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.lastQuery = q
	var res []models.ProductView
	for _, p := range s.db.products {
		res = append(res, productView(p))
	}
	return res, int64(len(res)), nil
}

func (s memProducts) PriceRange(_ context.Context, _ *query.Query) (*models.PriceRange, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if len(s.db.products) == 0 {
		return nil, nil
	}
	pr := &models.PriceRange{Min: -1}
	for _, p := range s.db.products {
		if pr.Min < 0 || p.Price < pr.Min {
			pr.Min = p.Price
		}
		if p.Price > pr.Max {
			pr.Max = p.Price
		}
	}
	return pr, nil
}

func (s memProducts) ListByIDs(_ context.Context, list []primitive.ObjectID) ([]models.ProductView, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var res []models.ProductView
	for _, id := range list {
		if p, ok := s.db.products[id]; ok {
			res = append(res, productView(p))
		}
	}
	return res, nil
}

func (s memProducts) GetBySlug(_ context.Context, slug string) (*models.ProductView, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, p := range s.db.products {
		if p.Slug == slug {
			v := productView(p)
			return &v, nil
		}
	}
	return nil, apperror.NotFound(lookups.EntityProduct, slug)
}

func (s memProducts) Get(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, err := s.product(id)
	if err != nil {
		return nil, err
	}
	return copyProduct(p), nil
}

func (s memProducts) slugTaken(p *models.Product) bool {
	for _, v := range s.db.products {
		if v.Slug == p.Slug && v.ID != p.ID {
			return true
		}
	}
	return false
}

func (s memProducts) Create(_ context.Context, p *models.Product) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.slugTaken(p) {
		return apperror.Conflict("duplicate key")
	}
	s.db.products[p.ID] = copyProduct(p)
	return nil
}

func (s memProducts) Update(_ context.Context, p *models.Product) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, err := s.product(p.ID); err != nil {
		return err
	}
	if s.slugTaken(p) {
		return apperror.Conflict("duplicate key")
	}
	s.db.products[p.ID] = copyProduct(p)
	return nil
}

func (s memProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, err := s.product(id); err != nil {
		return err
	}
	delete(s.db.products, id)
	return nil
}

func (s memProducts) AddReview(_ context.Context, id primitive.ObjectID, r models.Review) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, err := s.product(id)
	if err != nil {
		return false, err
	}
	sum := 0
	for _, v := range p.Reviews {
		if v.User == r.User {
			return false, nil
		}
		sum += v.Rating
	}
	p.Reviews = append(p.Reviews, r)
	p.NumReviews = len(p.Reviews)
	p.Rating = float64(sum+r.Rating) / float64(p.NumReviews)
	return true, nil
}

func (s memProducts) TakeStock(_ context.Context, id primitive.ObjectID, quantity int) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.products[id]
	if !ok || p.StockCount < quantity {
		return false, nil
	}
	p.StockCount -= quantity
	return true, nil
}

func (s memProducts) ReturnStock(_ context.Context, id primitive.ObjectID, quantity int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if p, ok := s.db.products[id]; ok {
		p.StockCount += quantity
	}
	return nil
}

// orders

type memOrders struct{ db *memDB }

func (s memOrders) Create(_ context.Context, o *models.Order) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c := *o
	s.db.orders[o.ID] = &c
	return nil
}

func (s memOrders) Get(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orders[id]
	if !ok {
		return nil, apperror.NotFound(lookups.EntityOrder, id.Hex())
	}
	c := *o
	return &c, nil
}

func (s memOrders) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var res []models.Order
	for _, o := range s.db.orders {
		if o.User == userID {
			res = append(res, *o)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (s memOrders) SetPaid(_ context.Context, id primitive.ObjectID, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orders[id]
	if !ok {
		return apperror.NotFound(lookups.EntityOrder, id.Hex())
	}
	o.IsPaid = true
	o.PaidAt = &at
	return nil
}

func (s memOrders) SetDelivered(_ context.Context, id primitive.ObjectID, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orders[id]
	if !ok {
		return apperror.NotFound(lookups.EntityOrder, id.Hex())
	}
	o.IsDelivered = true
	o.DeliveredAt = &at
	return nil
}

// books

type memBooks struct{ db *memDB }

func (s memBooks) List(_ context.Context, q *query.Query) ([]models.Book, int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.lastQuery = q
	var res []models.Book
	for _, b := range s.db.books {
		res = append(res, *b)
	}
	return res, int64(len(res)), nil
}

func (s memBooks) Get(_ context.Context, id primitive.ObjectID) (*models.Book, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	b, ok := s.db.books[id]
	if !ok {
		return nil, apperror.NotFound(lookups.EntityBook, id.Hex())
	}
	c := *b
	return &c, nil
}

func (s memBooks) Create(_ context.Context, b *models.Book) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c := *b
	s.db.books[b.ID] = &c
	return nil
}

func (s memBooks) Update(_ context.Context, b *models.Book) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.books[b.ID]; !ok {
		return apperror.NotFound(lookups.EntityBook, b.ID.Hex())
	}
	c := *b
	s.db.books[b.ID] = &c
	return nil
}

func (s memBooks) Delete(_ context.Context, id primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.books[id]; !ok {
		return apperror.NotFound(lookups.EntityBook, id.Hex())
	}
	delete(s.db.books, id)
	return nil
}

// taxonomy

type memLookups struct {
	db    *memDB
	calls int // List and Commercials calls, to check the cache
}

func (s *memLookups) List(_ context.Context, kind string) ([]models.Lookup, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.calls++
	return append([]models.Lookup{}, s.db.lookups[kind]...), nil
}

func (s *memLookups) Exists(_ context.Context, kind string, id primitive.ObjectID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, l := range s.db.lookups[kind] {
		if l.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *memLookups) FindByName(_ context.Context, kind string, name string) (*models.Lookup, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, l := range s.db.lookups[kind] {
		if strings.EqualFold(l.Name, name) {
			c := l
			return &c, nil
		}
	}
	return nil, apperror.NotFound(kind, name)
}

func (s *memLookups) Create(_ context.Context, kind string, l *models.Lookup) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.lookups[kind] = append(s.db.lookups[kind], *l)
	return nil
}

func (s *memLookups) DeliveryMethods(_ context.Context) ([]models.DeliveryMethod, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return append([]models.DeliveryMethod{}, s.db.delivery...), nil
}

func (s *memLookups) DeliveryMethod(_ context.Context, id primitive.ObjectID) (*models.DeliveryMethod, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, d := range s.db.delivery {
		if d.ID == id {
			c := d
			return &c, nil
		}
	}
	return nil, apperror.NotFound(lookups.EntityDelivery, id.Hex())
}

func (s *memLookups) Commercials(_ context.Context) ([]models.Commercial, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.calls++
	return append([]models.Commercial{}, s.db.ads...), nil
}
