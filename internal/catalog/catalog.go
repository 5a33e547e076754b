package catalog

// Concrete column names of the destination catalog.
const (
	ColumnDestination        = "Destination"
	ColumnAccommodationCost  = "Accommodation cost"
	ColumnTransportationCost = "Transportation cost"
	ColumnTotalCost          = "Total cost"
	ColumnDuration           = "Duration (days)"
	ColumnMonth              = "Month"
	ColumnAccommodationType  = "Accommodation type"
)

// Destination is a single catalog record.
// TotalCost is derived from the two cost components once, when the record
// enters a Catalog, and is never changed afterwards.
type Destination struct {
	Name               string  `json:"destination"`
	AccommodationCost  float64 `json:"accommodation_cost"`
	TransportationCost float64 `json:"transportation_cost"`
	TotalCost          float64 `json:"total_cost"`
	Duration           float64 `json:"duration_days"`
	Month              int     `json:"month"`
	// AccommodationType is empty when the type is absent.
	AccommodationType string `json:"accommodation_type"`
}

// Catalog is the ordered, read-only set of destinations scored against queries.
// Besides the built-in destination fields it keeps any additional columns read
// from the source file, so rules can reference them by name.
// A Catalog is never mutated after construction and is safe for concurrent reads.
type Catalog struct {
	destinations []Destination
	numeric      map[string][]float64
	text         map[string][]string
}

// New builds a catalog from destinations, computing TotalCost for every record.
func New(destinations []Destination) *Catalog {
	c := &Catalog{
		destinations: make([]Destination, len(destinations)),
		numeric:      make(map[string][]float64),
		text:         make(map[string][]string),
	}
	copy(c.destinations, destinations)

	n := len(c.destinations)
	names := make([]string, n)
	accommodation := make([]float64, n)
	transportation := make([]float64, n)
	total := make([]float64, n)
	duration := make([]float64, n)
	month := make([]float64, n)
	lodging := make([]string, n)

	for i := range c.destinations {
		d := &c.destinations[i]
		d.TotalCost = d.AccommodationCost + d.TransportationCost

		names[i] = d.Name
		accommodation[i] = d.AccommodationCost
		transportation[i] = d.TransportationCost
		total[i] = d.TotalCost
		duration[i] = d.Duration
		month[i] = float64(d.Month)
		lodging[i] = d.AccommodationType
	}

	c.text[ColumnDestination] = names
	c.text[ColumnAccommodationType] = lodging
	c.numeric[ColumnAccommodationCost] = accommodation
	c.numeric[ColumnTransportationCost] = transportation
	c.numeric[ColumnTotalCost] = total
	c.numeric[ColumnDuration] = duration
	c.numeric[ColumnMonth] = month

	return c
}

// Len returns the number of destinations.
func (c *Catalog) Len() int {
	return len(c.destinations)
}

// At returns the i-th destination.
func (c *Catalog) At(i int) Destination {
	return c.destinations[i]
}

// Destinations returns a copy of all records in catalog order.
func (c *Catalog) Destinations() []Destination {
	result := make([]Destination, len(c.destinations))
	copy(result, c.destinations)
	return result
}

// Numeric returns the values of a numeric column.
// The returned slice is shared and must not be modified.
func (c *Catalog) Numeric(column string) ([]float64, bool) {
	values, found := c.numeric[column]
	return values, found
}

// Text returns the values of a text column.
// The returned slice is shared and must not be modified.
func (c *Catalog) Text(column string) ([]string, bool) {
	values, found := c.text[column]
	return values, found
}

// HasColumn reports whether a column of any kind exists.
func (c *Catalog) HasColumn(column string) bool {
	if _, found := c.numeric[column]; found {
		return true
	}
	_, found := c.text[column]
	return found
}

// Features returns the {TotalCost, Duration, Month} row of every destination,
// the feature space used for similarity.
func (c *Catalog) Features() [][3]float64 {
	rows := make([][3]float64, len(c.destinations))
	for i, d := range c.destinations {
		rows[i] = [3]float64{d.TotalCost, d.Duration, float64(d.Month)}
	}
	return rows
}

// withExtra attaches an additional column. Built-in columns are never replaced.
func (c *Catalog) withExtra(column string, numeric []float64, text []string) {
	if c.HasColumn(column) {
		return
	}
	if numeric != nil {
		c.numeric[column] = numeric
		return
	}
	c.text[column] = text
}
