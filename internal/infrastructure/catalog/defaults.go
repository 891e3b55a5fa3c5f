package catalog

import "github.com/exportlens/backend/internal/domain"

var (
	mainIngredient = domain.AttributeDefinition{
		Name:        "mainIngredient",
		DisplayName: "Main Ingredient",
		Type:        domain.AttributeString,
	}
	preparationMethod = domain.AttributeDefinition{
		Name:        "preparationMethod",
		DisplayName: "Preparation Method",
		Type:        domain.AttributeString,
	}
	storageType = domain.AttributeDefinition{
		Name:          "storageType",
		DisplayName:   "Storage Type",
		Type:          domain.AttributeString,
		AllowedValues: []string{"ambient", "chilled", "frozen"},
	}
)

// DefaultCategories returns the built-in export category catalog. The first
// entry is the default assignment for products nothing else matches.
func DefaultCategories() []domain.ProductCategory {
	return []domain.ProductCategory{
		{
			ID:             "general-merchandise",
			Name:           "General Merchandise",
			Description:    "Products that need manual review before a category is assigned",
			Keywords:       []string{"assorted", "miscellaneous", "general"},
			AlternateNames: []string{"General", "Miscellaneous"},
		},
		{
			ID:                   "beverages",
			Name:                 "Beverages",
			Description:          "Alcoholic and non-alcoholic drinks, juices and waters",
			Examples:             []string{"red wine", "craft beer", "orange juice", "sparkling water"},
			Keywords:             []string{"wine", "beer", "juice", "soda", "water", "spirits", "whisky", "vodka", "drink", "beverage"},
			AlternateNames:       []string{"Drinks", "Wine", "Juice", "Spirits"},
			HSCodeHints:          []string{"22", "20.09"},
			Priority:             2,
			AttributeDefinitions: []domain.AttributeDefinition{mainIngredient, storageType},
		},
		{
			ID:                   "coffee-tea-spices",
			Name:                 "Coffee, Tea & Spices",
			Description:          "Coffee beans, tea leaves, and whole or ground spices",
			Examples:             []string{"arabica coffee beans", "green tea", "black pepper", "turmeric powder"},
			Keywords:             []string{"coffee", "tea", "spice", "pepper", "turmeric", "cardamom", "cinnamon", "arabica", "robusta"},
			AlternateNames:       []string{"Coffee & Tea", "Coffee", "Spices"},
			HSCodeHints:          []string{"09"},
			Priority:             2,
			AttributeDefinitions: []domain.AttributeDefinition{mainIngredient, preparationMethod},
		},
		{
			ID:                   "dairy",
			Name:                 "Dairy",
			Description:          "Milk, cheese, butter, yogurt and other dairy produce",
			Examples:             []string{"cheddar cheese", "salted butter", "milk powder"},
			Keywords:             []string{"milk", "cheese", "butter", "yogurt", "cream", "ghee", "dairy"},
			AlternateNames:       []string{"Cheese", "Butter", "Yogurt"},
			HSCodeHints:          []string{"04"},
			Priority:             1,
			AttributeDefinitions: []domain.AttributeDefinition{mainIngredient, storageType},
		},
		{
			ID:                   "meat-seafood",
			Name:                 "Meat & Seafood",
			Description:          "Fresh, chilled and frozen meat, fish and crustaceans",
			Examples:             []string{"frozen shrimp", "chicken breast", "smoked salmon"},
			Keywords:             []string{"beef", "chicken", "pork", "lamb", "fish", "salmon", "tuna", "shrimp", "prawn", "meat", "seafood"},
			AlternateNames:       []string{"Meat", "Seafood", "Chicken", "Shrimp", "Salmon"},
			HSCodeHints:          []string{"02", "03"},
			Priority:             1,
			AttributeDefinitions: []domain.AttributeDefinition{mainIngredient, preparationMethod, storageType},
		},
		{
			ID:                   "bakery-cereals",
			Name:                 "Bakery & Cereals",
			Description:          "Bread, biscuits, pasta, rice and other cereal products",
			Examples:             []string{"basmati rice", "durum wheat pasta", "butter biscuits"},
			Keywords:             []string{"bread", "biscuit", "cracker", "pasta", "rice", "flour", "wheat", "oats", "cereal", "noodles"},
			AlternateNames:       []string{"Biscuits", "Pasta", "Noodles", "Cereal"},
			HSCodeHints:          []string{"10", "19"},
			Priority:             1,
			AttributeDefinitions: []domain.AttributeDefinition{mainIngredient, preparationMethod},
		},
		{
			ID:                   "confectionery-snacks",
			Name:                 "Confectionery & Snacks",
			Description:          "Chocolate, sugar confectionery, chips and roasted nuts",
			Examples:             []string{"dark chocolate bar", "potato chips", "roasted cashews"},
			Keywords:             []string{"chocolate", "candy", "toffee", "snack", "chips", "crisps", "nuts", "cashew", "almond", "cocoa"},
			AlternateNames:       []string{"Snacks", "Confectionery", "Chocolate", "Candy"},
			HSCodeHints:          []string{"17", "18"},
			Priority:             1,
			AttributeDefinitions: []domain.AttributeDefinition{mainIngredient},
		},
		{
			ID:                   "fruits-vegetables",
			Name:                 "Fruits & Vegetables",
			Description:          "Fresh, dried and preserved fruit and vegetables",
			Examples:             []string{"alphonso mangoes", "dried apricots", "red onions"},
			Keywords:             []string{"fruit", "vegetable", "mango", "apple", "banana", "orange", "onion", "garlic", "tomato", "potato"},
			AlternateNames:       []string{"Produce", "Fruit", "Vegetables", "Mango"},
			HSCodeHints:          []string{"07", "08"},
			Priority:             1,
			AttributeDefinitions: []domain.AttributeDefinition{mainIngredient, preparationMethod, storageType},
		},
		{
			ID:             "leather-goods",
			Name:           "Leather Goods",
			Description:    "Handbags, wallets, belts and other articles of leather",
			Examples:       []string{"leather wallet", "leather handbag", "leather belt"},
			Keywords:       []string{"leather", "wallet", "handbag", "belt", "purse", "suede"},
			AlternateNames: []string{"Leather", "Handbag", "Wallet"},
			HSCodeHints:    []string{"42"},
			Priority:       1,
		},
		{
			ID:             "apparel-textiles",
			Name:           "Apparel & Textiles",
			Description:    "Garments, knitwear and woven fabrics",
			Examples:       []string{"cotton t-shirt", "silk scarf", "wool sweater"},
			Keywords:       []string{"shirt", "dress", "jacket", "jeans", "sweater", "scarf", "cotton", "silk", "wool", "fabric"},
			AlternateNames: []string{"Apparel", "Textiles", "Clothing", "Shirt"},
			HSCodeHints:    []string{"61", "62"},
			Priority:       1,
		},
		{
			ID:             "electronics",
			Name:           "Electronics",
			Description:    "Phones, chargers, audio equipment and electrical accessories",
			Examples:       []string{"usb charger", "bluetooth speaker", "wireless earbuds"},
			Keywords:       []string{"phone", "charger", "cable", "speaker", "headphones", "earbuds", "battery", "electronic"},
			AlternateNames: []string{"Electronic", "Charger", "Headphones", "Speaker"},
			HSCodeHints:    []string{"85"},
			Priority:       1,
		},
		{
			ID:             "home-kitchen",
			Name:           "Home & Kitchen",
			Description:    "Tableware, cookware, kitchen utensils and furniture",
			Examples:       []string{"ceramic mug", "stainless steel pan", "wooden chair"},
			Keywords:       []string{"mug", "plate", "bowl", "pan", "pot", "knife", "cutlery", "towel", "furniture", "chair"},
			AlternateNames: []string{"Homeware", "Kitchenware", "Cookware", "Tableware", "Furniture"},
			HSCodeHints:    []string{"69", "73", "94"},
		},
	}
}

// DefaultHSCodes returns the built-in HS seed covering the default catalog's
// chapters. Descriptions follow the HS nomenclature in shortened form.
func DefaultHSCodes() []domain.HSCode {
	codes := []domain.HSCode{
		{Code: "02", Description: "Meat and edible meat offal"},
		{Code: "0201", Description: "Meat of bovine animals, fresh or chilled", Keywords: []string{"beef", "veal", "steak"}},
		{Code: "0202", Description: "Meat of bovine animals, frozen", Keywords: []string{"beef", "frozen"}},
		{Code: "0207", Description: "Meat and edible offal of poultry, fresh, chilled or frozen", Keywords: []string{"chicken", "turkey", "duck", "poultry"}},
		{Code: "020714", Description: "Cuts and offal of fowls, frozen", Keywords: []string{"chicken", "breast", "wings", "frozen"}},

		{Code: "03", Description: "Fish and crustaceans, molluscs and other aquatic invertebrates"},
		{Code: "0302", Description: "Fish, fresh or chilled", Keywords: []string{"salmon", "tuna", "fresh", "fish"}},
		{Code: "0303", Description: "Fish, frozen", Keywords: []string{"salmon", "tuna", "mackerel", "frozen", "fish"}},
		{Code: "0306", Description: "Crustaceans, whether in shell or not, live, fresh, chilled, frozen, dried or smoked", Keywords: []string{"shrimp", "prawn", "lobster", "crab"}},
		{Code: "030617", Description: "Other shrimps and prawns, frozen", Keywords: []string{"shrimp", "prawn", "frozen"}},

		{Code: "04", Description: "Dairy produce; birds' eggs; natural honey"},
		{Code: "0401", Description: "Milk and cream, not concentrated nor containing added sugar", Keywords: []string{"milk", "cream"}},
		{Code: "0402", Description: "Milk and cream, concentrated or containing added sugar", Keywords: []string{"milk", "powder", "condensed"}},
		{Code: "0405", Description: "Butter and other fats and oils derived from milk", Keywords: []string{"butter", "ghee"}},
		{Code: "0406", Description: "Cheese and curd", Keywords: []string{"cheese", "cheddar", "paneer", "curd"}},
		{Code: "040690", Description: "Other cheese", Keywords: []string{"cheddar", "gouda", "mozzarella"}},
		{Code: "0409", Description: "Natural honey", Keywords: []string{"honey"}},

		{Code: "07", Description: "Edible vegetables and certain roots and tubers"},
		{Code: "0701", Description: "Potatoes, fresh or chilled", Keywords: []string{"potato", "potatoes"}},
		{Code: "0702", Description: "Tomatoes, fresh or chilled", Keywords: []string{"tomato", "tomatoes"}},
		{Code: "0703", Description: "Onions, shallots, garlic, leeks and other alliaceous vegetables, fresh or chilled", Keywords: []string{"onion", "onions", "garlic", "shallot"}},
		{Code: "070310", Description: "Onions and shallots", Keywords: []string{"onion", "onions", "shallot"}},
		{Code: "070320", Description: "Garlic", Keywords: []string{"garlic"}},

		{Code: "08", Description: "Edible fruit and nuts; peel of citrus fruit or melons"},
		{Code: "0801", Description: "Coconuts, Brazil nuts and cashew nuts, fresh or dried", Keywords: []string{"cashew", "cashews", "coconut"}},
		{Code: "080132", Description: "Cashew nuts, shelled", Keywords: []string{"cashew", "cashews", "shelled"}},
		{Code: "0803", Description: "Bananas, including plantains, fresh or dried", Keywords: []string{"banana", "bananas", "plantain"}},
		{Code: "0804", Description: "Dates, figs, pineapples, avocados, guavas, mangoes and mangosteens, fresh or dried", Keywords: []string{"mango", "mangoes", "dates", "figs", "avocado"}},
		{Code: "080450", Description: "Guavas, mangoes and mangosteens", Keywords: []string{"mango", "mangoes", "guava"}},
		{Code: "0805", Description: "Citrus fruit, fresh or dried", Keywords: []string{"orange", "oranges", "lemon", "lime", "mandarin"}},
		{Code: "0808", Description: "Apples, pears and quinces, fresh", Keywords: []string{"apple", "apples", "pear"}},

		{Code: "09", Description: "Coffee, tea, mate and spices"},
		{Code: "0901", Description: "Coffee, whether or not roasted or decaffeinated", Keywords: []string{"coffee", "arabica", "robusta", "beans"}},
		{Code: "090111", Description: "Coffee, not roasted, not decaffeinated", Keywords: []string{"coffee", "green", "beans", "unroasted"}},
		{Code: "090121", Description: "Coffee, roasted, not decaffeinated", Keywords: []string{"coffee", "roasted", "beans", "ground"}},
		{Code: "0902", Description: "Tea, whether or not flavoured", Keywords: []string{"tea", "green", "black", "leaves"}},
		{Code: "090210", Description: "Green tea (not fermented) in immediate packings not exceeding 3 kg", Keywords: []string{"green", "tea"}},
		{Code: "090230", Description: "Black tea (fermented) in immediate packings not exceeding 3 kg", Keywords: []string{"black", "tea", "assam", "darjeeling"}},
		{Code: "0904", Description: "Pepper of the genus Piper; dried or crushed or ground fruits of the genus Capsicum", Keywords: []string{"pepper", "chilli", "paprika"}},
		{Code: "0908", Description: "Nutmeg, mace and cardamoms", Keywords: []string{"cardamom", "nutmeg", "mace"}},
		{Code: "0910", Description: "Ginger, saffron, turmeric, thyme, bay leaves, curry and other spices", Keywords: []string{"ginger", "turmeric", "saffron", "curry"}},

		{Code: "10", Description: "Cereals"},
		{Code: "1001", Description: "Wheat and meslin", Keywords: []string{"wheat", "durum"}},
		{Code: "1006", Description: "Rice", Keywords: []string{"rice", "basmati", "jasmine"}},
		{Code: "100630", Description: "Semi-milled or wholly milled rice", Keywords: []string{"rice", "basmati", "white", "milled"}},

		{Code: "17", Description: "Sugars and sugar confectionery"},
		{Code: "1701", Description: "Cane or beet sugar and chemically pure sucrose, in solid form", Keywords: []string{"sugar", "cane"}},
		{Code: "1704", Description: "Sugar confectionery not containing cocoa", Keywords: []string{"candy", "toffee", "gum", "sweets"}},

		{Code: "18", Description: "Cocoa and cocoa preparations"},
		{Code: "1801", Description: "Cocoa beans, whole or broken, raw or roasted", Keywords: []string{"cocoa", "beans"}},
		{Code: "1806", Description: "Chocolate and other food preparations containing cocoa", Keywords: []string{"chocolate", "cocoa", "bar"}},
		{Code: "180632", Description: "Chocolate in blocks, slabs or bars, not filled", Keywords: []string{"chocolate", "bar", "dark", "milk"}},

		{Code: "19", Description: "Preparations of cereals, flour, starch or milk; pastrycooks' products"},
		{Code: "1902", Description: "Pasta, whether or not cooked or stuffed; couscous", Keywords: []string{"pasta", "noodles", "spaghetti", "couscous"}},
		{Code: "1905", Description: "Bread, pastry, cakes, biscuits and other bakers' wares", Keywords: []string{"bread", "biscuits", "cookies", "cake", "crackers"}},
		{Code: "190531", Description: "Sweet biscuits", Keywords: []string{"biscuits", "cookies", "sweet"}},

		{Code: "20", Description: "Preparations of vegetables, fruit, nuts or other parts of plants"},
		{Code: "2005", Description: "Other vegetables prepared or preserved otherwise than by vinegar, not frozen", Keywords: []string{"chips", "crisps", "pickled"}},
		{Code: "2009", Description: "Fruit juices and vegetable juices, unfermented, not containing added spirit", Keywords: []string{"juice", "orange", "apple", "mango"}},
		{Code: "200912", Description: "Orange juice, not frozen, of a Brix value not exceeding 20", Keywords: []string{"orange", "juice"}},

		{Code: "22", Description: "Beverages, spirits and vinegar"},
		{Code: "2201", Description: "Waters, including natural or artificial mineral waters and aerated waters, not sweetened", Keywords: []string{"water", "mineral", "sparkling"}},
		{Code: "2202", Description: "Waters containing added sugar or flavoured; other non-alcoholic beverages", Keywords: []string{"soda", "cola", "soft", "drink", "lemonade"}},
		{Code: "2203", Description: "Beer made from malt", Keywords: []string{"beer", "lager", "ale", "stout"}},
		{Code: "2204", Description: "Wine of fresh grapes, including fortified wines; grape must", Keywords: []string{"wine", "red", "white", "sparkling", "champagne", "cabernet", "merlot"}},
		{Code: "220410", Description: "Sparkling wine", Keywords: []string{"sparkling", "champagne", "prosecco"}},
		{Code: "220421", Description: "Other wine in containers holding 2 litres or less", Keywords: []string{"wine", "bottle", "red", "white"}},
		{Code: "2208", Description: "Undenatured ethyl alcohol; spirits, liqueurs and other spirituous beverages", Keywords: []string{"whisky", "whiskey", "vodka", "rum", "gin", "spirits"}},
		{Code: "220830", Description: "Whiskies", Keywords: []string{"whisky", "whiskey", "scotch", "bourbon"}},

		{Code: "42", Description: "Articles of leather; saddlery and harness; travel goods, handbags and similar containers"},
		{Code: "4202", Description: "Trunks, suitcases, handbags, wallets, purses and similar containers", Keywords: []string{"handbag", "wallet", "purse", "suitcase", "bag"}},
		{Code: "420221", Description: "Handbags with outer surface of leather", Keywords: []string{"handbag", "leather"}},
		{Code: "420231", Description: "Articles normally carried in the pocket or handbag, with outer surface of leather", Keywords: []string{"wallet", "purse", "leather"}},
		{Code: "4203", Description: "Articles of apparel and clothing accessories, of leather", Keywords: []string{"belt", "gloves", "jacket", "leather"}},

		{Code: "61", Description: "Articles of apparel and clothing accessories, knitted or crocheted"},
		{Code: "6109", Description: "T-shirts, singlets and other vests, knitted or crocheted", Keywords: []string{"shirt", "t-shirt", "tshirt", "vest", "cotton"}},
		{Code: "610910", Description: "T-shirts, singlets and other vests of cotton, knitted", Keywords: []string{"shirt", "cotton"}},
		{Code: "6110", Description: "Jerseys, pullovers, cardigans and similar articles, knitted or crocheted", Keywords: []string{"sweater", "pullover", "cardigan", "wool"}},

		{Code: "62", Description: "Articles of apparel and clothing accessories, not knitted or crocheted"},
		{Code: "6203", Description: "Men's suits, jackets, trousers and shorts, not knitted", Keywords: []string{"jacket", "trousers", "jeans", "suit"}},
		{Code: "6204", Description: "Women's suits, jackets, dresses, skirts and trousers, not knitted", Keywords: []string{"dress", "skirt", "jacket"}},
		{Code: "6214", Description: "Shawls, scarves, mufflers, mantillas, veils and the like", Keywords: []string{"scarf", "scarves", "shawl", "silk"}},

		{Code: "69", Description: "Ceramic products"},
		{Code: "6911", Description: "Tableware, kitchenware and other household articles, of porcelain or china", Keywords: []string{"porcelain", "plate", "mug", "cup", "bowl"}},
		{Code: "6912", Description: "Ceramic tableware, kitchenware and other household articles, other than porcelain", Keywords: []string{"ceramic", "mug", "plate", "bowl"}},

		{Code: "73", Description: "Articles of iron or steel"},
		{Code: "7323", Description: "Table, kitchen or other household articles of iron or steel", Keywords: []string{"pan", "pot", "stainless", "steel", "cookware"}},

		{Code: "85", Description: "Electrical machinery and equipment; sound recorders and reproducers"},
		{Code: "8504", Description: "Electrical transformers, static converters and inductors", Keywords: []string{"charger", "adapter", "power"}},
		{Code: "8507", Description: "Electric accumulators", Keywords: []string{"battery", "batteries", "lithium"}},
		{Code: "8517", Description: "Telephone sets, including smartphones; other apparatus for transmission of voice or data", Keywords: []string{"phone", "smartphone", "mobile"}},
		{Code: "8518", Description: "Microphones, loudspeakers, headphones and earphones", Keywords: []string{"speaker", "headphones", "earbuds", "earphones", "bluetooth"}},
		{Code: "851830", Description: "Headphones and earphones", Keywords: []string{"headphones", "earbuds", "earphones"}},

		{Code: "94", Description: "Furniture; bedding, mattresses, cushions; lamps and lighting fittings"},
		{Code: "9401", Description: "Seats, whether or not convertible into beds", Keywords: []string{"chair", "seat", "sofa", "stool"}},
		{Code: "9403", Description: "Other furniture and parts thereof", Keywords: []string{"table", "desk", "cabinet", "wooden"}},
	}

	// The built-in seed is well-formed; this fills level and parent.
	if err := domain.ValidateHSCodes(codes); err != nil {
		panic(err)
	}
	return codes
}
