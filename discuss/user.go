package discuss

// User is the author snapshot attached to a discussion or comment when it is created.
type User struct {
	ID       int    `json:"id"`
	ImageURL string `json:"image_url"`
	NickName string `json:"nick_name"`
	SkinType string `json:"skin_type"`
}

// PlaceholderUser authors everything submitted during a session.
var PlaceholderUser = User{
	ID:       44,
	ImageURL: "https://picky-app.s3-ap-southeast-1.amazonaws.com/users/44444.202141131010.jpg",
	NickName: "Squad Current User",
	SkinType: "Smooth",
}
