package storage

const CollectionEvents = "event"

type Event struct {
	ID            string `json:"id" db:"id"`
	Title         string `json:"title" db:"title"`
	Description   string `json:"description" db:"description"`
	DateISO       string `json:"date_iso" db:"date_iso"`
	Location      string `json:"location" db:"location"`
	CoverImageURL string `json:"cover_image_url" db:"cover_image_url"`
}
