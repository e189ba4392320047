package models

// MediaItem is one entry of an ordered media collection (sliders, testimonials,
// add-on services and the like). All collections share this shape and the same
// create/list/delete/reorder operations.
type MediaItem struct {
	ID           int64  `json:"id"`
	Collection   string `json:"-"`
	Title        string `json:"title"`
	ImageURL     string `json:"imageUrl"`
	DisplayOrder int    `json:"displayOrder"`
}

// MediaReorderItem assigns a new display order to one item.
type MediaReorderItem struct {
	ID           int64 `json:"id"`
	DisplayOrder int   `json:"displayOrder"`
}
