package storefront

import "time"

// Tag is a genre or feature label.
type Tag struct {
	No   int64
	Type string
	Name string
}

// Listing is the store metadata of one product. Every field is optional.
type Listing struct {
	ProductNo   int64
	StoreURL    string
	Title       string
	Description string // HTML fragment
	Developers  []string
	Publishers  []string
	Genres      []Tag
	Tags        []Tag
	IconURL     string
	CoverURL    string
	ReleaseDate time.Time
}

type storeResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Value   *struct {
		Components []storeComponent `json:"components"`
	} `json:"value"`
}

type storeComponent struct {
	ID    string      `json:"id"`
	Type  string      `json:"type"`
	Title string      `json:"title"`
	Props *storeProps `json:"props"`
}

type storeProps struct {
	ProductNo           int64      `json:"product_no"`
	ProductName         string     `json:"product_name"`
	ShortPiece          string     `json:"short_piece"`
	TitleImageSquare    string     `json:"title_image_square"`
	TitleImageRectangle string     `json:"title_image_rectangle"`
	Genres              []storeTag `json:"genres"`
	Tags                []storeTag `json:"tags"`
}

type storeTag struct {
	TagNo   int64  `json:"tag_no"`
	TagType string `json:"tag_type"`
	TagName string `json:"tag_name"`
}

func toTags(in []storeTag) []Tag {
	if len(in) == 0 {
		return nil
	}
	out := make([]Tag, 0, len(in))
	for _, t := range in {
		if t.TagName == "" {
			continue
		}
		out = append(out, Tag{No: t.TagNo, Type: t.TagType, Name: t.TagName})
	}
	return out
}

type developerResponse struct {
	Result  string `json:"result"`
	Message string `json:"message"`
	Value   *struct {
		Developer string `json:"developer"`
	} `json:"value"`
}

type metaResponse struct {
	Result  string `json:"result"`
	Message string `json:"message"`
	Value   *struct {
		PublisherName string `json:"publisher_name"`
		Publisher     string `json:"publisher"`
	} `json:"value"`
}
