// README: Catalog records returned to clients and the raw Mongo document shapes they are read from.
package catalog

// Placeholders for fields missing from a catalog document.
const (
	NoPrice       = "Prix non communiqué"
	NoDescription = "Pas de description"
	NoRating      = "Non noté"
	NoCuisine     = "Non spécifié"
	UnknownStatus = "Statut inconnu"
)

// Collection names in the catalog database.
const (
	HotelsCollection      = "hotels"
	RestaurantsCollection = "Restaurants"
	ActivitiesCollection  = "activities"
)

// Limit caps the number of documents read per lookup.
const Limit = 5

type Hotel struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

type Restaurant struct {
	Name    string `json:"name"`
	Rating  string `json:"rating"`
	Price   string `json:"price"`
	Cuisine string `json:"cuisine"`
	URL     string `json:"url"`
	Status  string `json:"status"`
}

type Activity struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
}

// Scraped documents nest their payload two levels deep, and every level may
// hold a single value or a list.

type hotelDoc struct {
	Data OneOrMany[hotelGroup] `bson:"data"`
}

type hotelGroup struct {
	Data OneOrMany[hotelItem] `bson:"data"`
}

type hotelItem struct {
	Title           flexText `bson:"title"`
	SecondaryInfo   flexText `bson:"secondaryInfo"`
	PriceForDisplay flexText `bson:"priceForDisplay"`
	PriceSummary    flexText `bson:"priceSummary"`
}

type restaurantDoc struct {
	Data OneOrMany[restaurantGroup] `bson:"data"`
}

type restaurantGroup struct {
	Restaurants OneOrMany[restaurantItem] `bson:"restaurants"`
}

type restaurantItem struct {
	Name              flexText            `bson:"name"`
	AverageRating     flexText            `bson:"averageRating"`
	PriceTag          flexText            `bson:"priceTag"`
	Tags              OneOrMany[flexText] `bson:"establishmentTypeAndCuisineTags"`
	MenuURL           flexText            `bson:"menuUrl"`
	CurrentOpenStatus flexText            `bson:"currentOpenStatus"`
}

type activityDoc struct {
	Data OneOrMany[activityGroup] `bson:"data"`
}

type activityGroup struct {
	Products OneOrMany[activityItem] `bson:"products"`
}

type activityItem struct {
	Name                flexText       `bson:"name"`
	ShortDescription    flexText       `bson:"shortDescription"`
	RepresentativePrice *activityPrice `bson:"representativePrice"`
}

type activityPrice struct {
	PublicAmount flexText `bson:"publicAmount"`
	Currency     flexText `bson:"currency"`
}
