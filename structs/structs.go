package structs

// Todo is the document shape held by the external search index.
// CreatedBy is set once at creation from the resolved identity and is
// the authorization anchor for every later mutation.
type Todo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"`
	CreatedBy string `json:"createdBy"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
}

// UserProfile is the identity provider's view of the requester. The
// JSON tags match the provider's userinfo response.
type UserProfile struct {
	Email       string `json:"email"`
	DisplayName string `json:"nickname"`
	AvatarURL   string `json:"picture"`
}
