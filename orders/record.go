package orders

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Record is a completed order: a chosen product plus the identification and
// location data collected from the session.
type Record struct {
	ID          uuid.UUID `db:"id"`
	UserID      int64     `db:"user_id"`
	Username    string    `db:"username"`
	Phone       string    `db:"phone"`
	ProductName string    `db:"product_name"`
	Latitude    float64   `db:"latitude"`
	Longitude   float64   `db:"longitude"`
	CreatedAt   time.Time `db:"created_at"`
}

// MapLink renders the Google Maps URL for the order's coordinates. The
// coordinates arrive as float32 from the transport, so they are formatted
// with 32-bit precision to avoid spurious decimal tails.
func MapLink(lat, lon float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%s,%s",
		strconv.FormatFloat(lat, 'f', -1, 32),
		strconv.FormatFloat(lon, 'f', -1, 32),
	)
}
