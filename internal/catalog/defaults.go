package catalog

const unsplash = "https://images.unsplash.com/"

// Default returns the built-in demo catalog.
func Default() *Catalog {
	c, err := New(defaultProducts(), defaultBrandScores(), defaultAlternatives())
	if err != nil {
		// The built-in data is fixed; failing here is a programming error.
		panic(err)
	}
	return c
}

func defaultProducts() []Product {
	return []Product{
		{
			ID:   "1",
			Name: "Bamboo Toothbrush Set",
			Description: "Eco-friendly biodegradable bamboo toothbrush set. 100% natural, sustainable, " +
				"and plastic-free packaging.",
			Price:    12.99,
			Image:    unsplash + "photo-1607613009820-a29f7bb81c04?w=400&h=400&fit=crop",
			Brand:    "EcoHome",
			Category: "Personal Care",
		},
		{
			ID:   "2",
			Name: "Reusable Stainless Steel Water Bottle",
			Description: "Premium recycled stainless steel bottle. BPA-free, eco-friendly, " +
				"and keeps drinks cold for 24 hours.",
			Price:    24.99,
			Image:    unsplash + "photo-1602143407151-7111542de6e8?w=400&h=400&fit=crop",
			Brand:    "GreenLife",
			Category: "Kitchen",
		},
		{
			ID:          "3",
			Name:        "Disposable Plastic Water Bottles (24 pack)",
			Description: "Convenient single-use plastic bottles. Perfect for parties and events.",
			Price:       8.99,
			Image:       unsplash + "photo-1523362628745-0c100150b504?w=400&h=400&fit=crop",
			Brand:       "QuickDrink",
			Category:    "Beverages",
		},
		{
			ID:   "4",
			Name: "Organic Cotton Tote Bag",
			Description: "100% organic cotton reusable shopping bag. Eco-friendly, biodegradable, " +
				"and naturally dyed.",
			Price:    15.99,
			Image:    unsplash + "photo-1591195853828-11db59a44f6b?w=400&h=400&fit=crop",
			Brand:    "EarthBag",
			Category: "Accessories",
		},
		{
			ID:   "5",
			Name: "Solar Powered Phone Charger",
			Description: "Sustainable solar charger made from recycled materials. Eco-friendly " +
				"renewable energy on the go.",
			Price:    39.99,
			Image:    unsplash + "photo-1593642532400-2682810df593?w=400&h=400&fit=crop",
			Brand:    "SunTech",
			Category: "Electronics",
		},
		{
			ID:          "6",
			Name:        "Plastic Kitchen Storage Containers",
			Description: "Set of 10 plastic food storage containers with lids. Microwave safe and disposable.",
			Price:       14.99,
			Image:       unsplash + "photo-1584308972272-9e4e7685e80f?w=400&h=400&fit=crop",
			Brand:       "StoreMart",
			Category:    "Kitchen",
		},
		{
			ID:   "7",
			Name: "Recycled Paper Notebook",
			Description: "Beautiful notebook made from 100% recycled paper. Eco-friendly, biodegradable, " +
				"and plastic-free binding.",
			Price:    9.99,
			Image:    unsplash + "photo-1531346878377-a5be20888e57?w=400&h=400&fit=crop",
			Brand:    "EcoPaper",
			Category: "Stationery",
		},
		{
			ID:   "8",
			Name: "Natural Beeswax Food Wraps",
			Description: "Organic beeswax wraps - sustainable alternative to plastic wrap. " +
				"Biodegradable and reusable.",
			Price:    18.99,
			Image:    unsplash + "photo-1556910096-6f5e72db6803?w=400&h=400&fit=crop",
			Brand:    "BeeEco",
			Category: "Kitchen",
		},
	}
}

func defaultBrandScores() map[string]int {
	return map[string]int{
		"EcoHome":    92,
		"GreenLife":  88,
		"QuickDrink": 25,
		"EarthBag":   95,
		"SunTech":    85,
		"StoreMart":  30,
		"EcoPaper":   90,
		"BeeEco":     93,
	}
}

func defaultAlternatives() map[string][]Alternative {
	return map[string][]Alternative{
		"3": {
			{
				ID:       "alt-1",
				Name:     "Stainless Steel Bottle",
				EcoScore: 90,
				Price:    24.99,
				Image:    unsplash + "photo-1602143407151-7111542de6e8?w=200&h=200&fit=crop",
			},
			{
				ID:       "alt-2",
				Name:     "Bamboo Bottle",
				EcoScore: 88,
				Price:    19.99,
				Image:    unsplash + "photo-1523362628745-0c100150b504?w=200&h=200&fit=crop",
			},
		},
		"6": {
			{
				ID:       "alt-3",
				Name:     "Glass Storage Containers",
				EcoScore: 85,
				Price:    29.99,
				Image:    unsplash + "photo-1584308972272-9e4e7685e80f?w=200&h=200&fit=crop",
			},
			{
				ID:       "alt-4",
				Name:     "Bamboo Storage Set",
				EcoScore: 87,
				Price:    24.99,
				Image:    unsplash + "photo-1556910096-6f5e72db6803?w=200&h=200&fit=crop",
			},
		},
	}
}
