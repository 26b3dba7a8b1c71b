package models

// StarResult is returned by the star toggle; NewCount is the stars count after the toggle
type StarResult struct {
	Starred  bool  `json:"starred"`
	NewCount int64 `json:"newCount"`
}

// WishlistResult is returned by the wishlist toggle
type WishlistResult struct {
	Wishlisted bool `json:"wishlisted"`
	Count      int  `json:"count"`
}
