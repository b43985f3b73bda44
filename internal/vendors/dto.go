package vendors

// UpdateProfileInput patches the vendor's public profile. Nil fields are left
// untouched.
type UpdateProfileInput struct {
	Name         *string
	Description  *string
	StoryMission *string
	Email        *string
	Phone        *string
	Address      *string
	City         *string
	State        *string
	ZipCode      *string
	Country      *string
	ServiceArea  *string
	ShipsGoods   *bool
}
