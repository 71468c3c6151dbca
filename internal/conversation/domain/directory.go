package domain

import "context"

// User display fields of a member, owned by the auth service
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Listing fields of a classified ad the chat needs, owned by the listings service
type Listing struct {
	ID       string   `json:"id"`
	SellerID string   `json:"seller_id"`
	Title    string   `json:"title"`
	Price    float64  `json:"price"`
	Images   []string `json:"images,omitempty"`
}

// Directory read-only lookup of users and listings
// absent entities are reported as nil / missing keys, not errors
type Directory interface {
	GetListing(ctx context.Context, listingID string) (*Listing, error)
	GetListings(ctx context.Context, listingIDs []string) (map[string]Listing, error)
	GetUsers(ctx context.Context, userIDs []string) (map[string]User, error)
}
