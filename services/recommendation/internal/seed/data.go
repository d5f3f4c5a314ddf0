package seed

type person struct {
	First, Last, Email string
}

var customers = []person{
	{"John", "Doe", "john.doe@example.com"},
	{"Jane", "Smith", "jane.smith@example.com"},
	{"Michael", "Johnson", "michael.j@example.com"},
	{"Emily", "Williams", "emily.w@example.com"},
	{"David", "Brown", "david.b@example.com"},
	{"Sarah", "Davis", "sarah.d@example.com"},
	{"James", "Miller", "james.m@example.com"},
	{"Lisa", "Wilson", "lisa.w@example.com"},
	{"Robert", "Moore", "robert.m@example.com"},
	{"Jennifer", "Taylor", "jennifer.t@example.com"},
}

type restaurant struct {
	Owner person
	Name  string
	Logo  string
}

var restaurants = []restaurant{
	{person{"Mario", "Rossi", "mario.rossi@pizzahouse.example"}, "Italian Pizza House", "profile-picture-1.png"},
	{person{"Wang", "Chen", "wang.chen@asianfusion.example"}, "Asian Fusion Delight", "profile-picture-2.png"},
	{person{"Ahmed", "Hassan", "ahmed@kebabhouse.example"}, "Mediterranean Kebab House", "profile-picture-3.png"},
	{person{"Carlos", "Garcia", "carlos@burritobowl.example"}, "Mexican Burrito Bowl", "profile-picture-4.png"},
	{person{"Yuki", "Tanaka", "yuki@sushiworld.example"}, "Sushi World", "profile-picture-5.png"},
}

var categoryNames = []string{
	"Pizza", "Burgers", "Chicken", "Seafood", "Rice Bowls", "Vegetarian", "Beverages", "Desserts",
}

type dish struct {
	Category string
	Title    string
	Image    string
	MinPrice float64
	MaxPrice float64
}

var dishes = []dish{
	{"Pizza", "Italian Classic Pizza", "italian-pizza.jpg", 12.99, 18.99},
	{"Pizza", "Vegetarian Pizza", "veg-pizza.jpg", 11.99, 16.99},
	{"Pizza", "Margherita Pizza", "pizza.jpg", 10.99, 15.99},
	{"Burgers", "Classic Beef Burger", "burger.jpg", 8.99, 12.99},
	{"Chicken", "Grilled Chicken Breast", "chicken.jpg", 13.99, 17.99},
	{"Chicken", "Pan-Fried Chicken", "pan-fried-chicken.jpg", 11.99, 15.99},
	{"Chicken", "Chicken BBQ", "chicken-barbeque.jpg", 14.99, 18.99},
	{"Seafood", "Seafood Platter", "seafood.jpg", 19.99, 25.99},
	{"Seafood", "Grilled Tuna Fish", "tuna-fish.jpg", 16.99, 21.99},
	{"Rice Bowls", "Steamed Rice Bowl", "steam-rice.jpg", 7.99, 10.99},
	{"Rice Bowls", "Asian Rice Bowl", "rice-bowl.jpg", 12.99, 16.99},
}

var reviewTexts = []string{
	"Absolutely delicious! Will order again.",
	"Great taste and generous portions.",
	"Food arrived hot and fresh.",
	"Average taste, nothing special.",
	"Best meal I've had in a while!",
	"Good food but a bit pricey.",
	"Fresh ingredients and well prepared.",
	"Disappointed with the portion size.",
	"Amazing flavors.",
	"Decent food, quick delivery.",
}

var searchQueries = []string{
	"pizza", "burger", "chicken", "sushi", "pasta",
	"seafood", "vegetarian", "dessert", "italian", "chinese",
}
