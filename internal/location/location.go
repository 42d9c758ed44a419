package location

// Country is returned by GET /countries with its cities nested.
type Country struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Cities []City `json:"cities"`
}

type City struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	CountryID int    `json:"-"`
}
