package user

// User is the login identity. Password holds the bcrypt hash and is never
// serialized.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Detail extends a user with profile data; each user has at most one.
type Detail struct {
	UserID    int    `json:"user_id"`
	Gender    string `json:"gender"`
	Age       *int   `json:"age"`
	CountryID *int   `json:"country_id"`
	CityID    *int   `json:"city_id"`
}

// Profile is a user joined with its detail and location names.
type Profile struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Gender    string `json:"gender"`
	Age       *int   `json:"age"`
	CountryID *int   `json:"country_id"`
	Country   string `json:"country"`
	CityID    *int   `json:"city_id"`
	City      string `json:"city"`
}

// ProfilePatch lists the profile fields a client may change; nil means
// unchanged.
type ProfilePatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	Age       *int    `json:"age,omitempty"`
	CountryID *int    `json:"country_id,omitempty"`
	CityID    *int    `json:"city_id,omitempty"`
}

// RegisterInput carries the fields needed to create a user.
type RegisterInput struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
