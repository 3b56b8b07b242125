package catalog

import "github.com/shopspring/decimal"

var defaultProducts = []Product{
	{ID: "milk-gal-whole", Name: "Whole Milk", Brand: "Great Value", Price: price("4.50"), Category: "dairy"},
	{ID: "milk-gal-skim", Name: "Skim Milk", Brand: "Great Value", Price: price("4.20"), Category: "dairy"},
	{ID: "milk-gal-local", Name: "Local Brand Milk", Brand: "Local Dairy", Price: price("3.50"), Category: "dairy"},
	{ID: "bread-white", Name: "White Bread", Brand: "Wonder", Price: price("2.80"), Category: "bakery"},
	{ID: "bread-wheat", Name: "Wheat Bread", Brand: "Nature's Own", Price: price("3.20"), Category: "bakery"},
	{ID: "apples-red", Name: "Red Apples", Brand: "Generic", Price: price("1.50"), Unit: "lb", Category: "produce"},
	{ID: "apples-green", Name: "Green Apples", Brand: "Generic", Price: price("1.60"), Unit: "lb", Category: "produce"},
	{ID: "chicken-breast", Name: "Chicken Breast", Brand: "Tyson", Price: price("8.00"), Unit: "lb", Category: "meat"},
	{ID: "rice-basmati", Name: "Basmati Rice", Brand: "Tilda", Price: price("12.00"), Unit: "bag", Category: "pantry"},
	{ID: "eggs-dozen", Name: "Eggs (Dozen)", Brand: "Nellie's Free Range", Price: price("5.00"), Category: "dairy"},
	{ID: "cereal-corn", Name: "Corn Flakes Cereal", Brand: "Kellogg's", Price: price("4.00"), Category: "pantry"},
	{ID: "soda-coke", Name: "Coca-Cola (12-pack)", Brand: "Coke", Price: price("7.00"), Category: "beverages"},
	{ID: "detergent-tide", Name: "Laundry Detergent", Brand: "Tide", Price: price("15.00"), Category: "household"},
	{ID: "shampoo-dove", Name: "Shampoo", Brand: "Dove", Price: price("6.50"), Category: "personal care"},
}

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}
