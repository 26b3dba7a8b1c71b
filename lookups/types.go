package lookups

// Entity names used in error messages and as analytics tags
const (
	EntityUser     = "user"
	EntityArticle  = "article"
	EntityComment  = "comment"
	EntityProduct  = "product"
	EntityOrder    = "order"
	EntityBook     = "book"
	EntityTag      = "tag"
	EntityCategory = "category"
	EntityBrand    = "brand"
	EntityDelivery = "delivery method"
)

// Taxonomy kinds served by the taxonomy endpoints
const (
	TaxonomyTags       = "tags"
	TaxonomyCategories = "categories"
	TaxonomyBrands     = "brands"
	TaxonomyDelivery   = "deliveryMethods"
	TaxonomyCommercial = "commercials"
)
