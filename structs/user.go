package structs

// UpdateProfileRequest carries a partial profile update. Nil fields are left
// untouched; the password hash and verification flag are not reachable here.
type UpdateProfileRequest struct {
	Username     *string `json:"username" validate:"omitempty,min=2,max=50"`
	FirstName    *string `json:"first_name" validate:"omitempty,max=100"`
	LastName     *string `json:"last_name" validate:"omitempty,max=100"`
	Phone        *string `json:"phone" validate:"omitempty,max=20"`
	Avatar       *string `json:"avatar" validate:"omitempty,url"`
	AddressLine1 *string `json:"address_line1" validate:"omitempty,max=255"`
	AddressLine2 *string `json:"address_line2" validate:"omitempty,max=255"`
	City         *string `json:"city" validate:"omitempty,max=100"`
	State        *string `json:"state" validate:"omitempty,max=100"`
	ZipCode      *string `json:"zip_code" validate:"omitempty,max=20"`
	Country      *string `json:"country" validate:"omitempty,max=100"`
}

// Fields returns the update as a column map, skipping nil entries.
func (r *UpdateProfileRequest) Fields() map[string]any {
	fields := map[string]any{}

	set := func(column string, value *string) {
		if value != nil {
			fields[column] = *value
		}
	}

	set("username", r.Username)
	set("first_name", r.FirstName)
	set("last_name", r.LastName)
	set("phone", r.Phone)
	set("avatar", r.Avatar)
	set("address_line1", r.AddressLine1)
	set("address_line2", r.AddressLine2)
	set("city", r.City)
	set("state", r.State)
	set("zip_code", r.ZipCode)
	set("country", r.Country)

	return fields
}
