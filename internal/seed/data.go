package seed

type demoUser struct {
	username, email, password string
	admin                     bool
}

var demoUsers = []demoUser{
	{username: "test", email: "test@mail.com", password: "testpassword"},
	{username: "testadmin", email: "testadmin@mail.com", password: "testadminpassword", admin: true},
}

var demoIngredients = []string{
	"Bacon", "Lamb", "Mayonnaise", "Ciabatta", "French Lentils", "Leek", "Butter",
	"Cheese", "Potatoes", "Lettuce", "Green Plantain", "Yellow Plantain", "Chicharron",
}

var demoCategories = [][2]string{
	{"Breakfast", "Morning meals, oats, eggs, smoothies"},
	{"Lunch", "Midday meals, salads, sandwiches, bowls"},
	{"Dinner", "Evening meals, pastas, stir-fries, roasts"},
	{"Snacks", "Light bites, bars, dips, small portions"},
	{"Vegetarian", "Vegetable-forward recipes"},
	{"Gluten Free", "Recipes without gluten"},
	{"Dairy Free", "Recipes without dairy products"},
}

// demoRecipe links ingredients and categories by name, ids are resolved at
// seed time.
type demoRecipe struct {
	title, description, instructions string
	ingredients, categories          []string
	servings                         int
	video, image                     string
}

var demoRecipes = []demoRecipe{
	{
		title:       "Kapsalon",
		description: "Dutch dish made with fries, lamb, and salad, topped with garlic sauce.",
		instructions: "1. Cut the meat into thin strips.\n" +
			"2. Fry the meat in a little oil for about 6 minutes until cooked through.\n" +
			"3. Bake or deep-fry the fries until golden brown and crisp.\n" +
			"4. Spread the fries in a baking dish and add the meat in an even layer.\n" +
			"5. Cover with grated cheese and grill until the cheese melts.\n" +
			"6. Top with chopped lettuce, drizzle with garlic sauce and serve immediately.",
		ingredients: []string{"Lamb", "Cheese", "Potatoes", "Lettuce", "Mayonnaise"},
		categories:  []string{"Dinner"},
		servings:    1,
		video:       "https://www.youtube.com/embed/UIcuiU1kV8I",
		image:       "https://www.themealdb.com/images/media/meals/sxysrt1468240488.jpg",
	},
	{
		title:       "Flamiche",
		description: "French leek tart with a buttery crust.",
		instructions: "1. Line a 23cm flan tin with shortcrust pastry and chill.\n" +
			"2. Blind bake the base until lightly golden.\n" +
			"3. Soften sliced leeks in butter with a pinch of salt for about 10 minutes.\n" +
			"4. Beat crème fraîche with eggs and nutmeg, then fold in the leeks.\n" +
			"5. Pour into the pastry and bake at 190°C for 35-40 minutes until set.\n" +
			"6. Rest for 10 minutes and serve warm.",
		ingredients: []string{"Leek", "Butter", "Cheese"},
		categories:  []string{"Dinner", "Vegetarian"},
		servings:    4,
		video:       "https://www.youtube.com/embed/x4AlJXOwfPk",
		image:       "https://www.themealdb.com/images/media/meals/wssvvs1511785879.jpg",
	},
	{
		title:       "Bacon Ciabatta Sandwich",
		description: "Crispy bacon with mayonnaise on toasted ciabatta.",
		instructions: "1. Fry the bacon until crispy and drain on paper towel.\n" +
			"2. Slice the ciabatta and toast until golden.\n" +
			"3. Spread mayonnaise on both halves.\n" +
			"4. Layer bacon and lettuce, close the sandwich and serve warm.",
		ingredients: []string{"Bacon", "Mayonnaise", "Ciabatta", "Lettuce"},
		categories:  []string{"Lunch"},
		servings:    1,
		image:       "https://essenrezept.de/wp-content/uploads/2020/12/Caprese-Bacon-Ciabatta-Sandwich.jpg",
	},
	{
		title:       "French Lentil Salad",
		description: "Warm French lentils tossed with shallot vinaigrette.",
		instructions: "1. Simmer rinsed lentils for 20-25 minutes until tender.\n" +
			"2. Drain and cool slightly.\n" +
			"3. Whisk olive oil, vinegar, minced shallot, salt and pepper.\n" +
			"4. Toss the warm lentils with the vinaigrette and serve.",
		ingredients: []string{"French Lentils", "Butter"},
		categories:  []string{"Lunch", "Vegetarian", "Gluten Free"},
		servings:    2,
		image:       "https://www.themealdb.com/images/media/meals/wvpsxx1468256321.jpg",
	},
	{
		title:       "Simple Roast Lamb Chops",
		description: "Pan-roasted lamb loin chops with a simple seasoning.",
		instructions: "1. Pat the chops dry and season with salt and pepper.\n" +
			"2. Sear in a hot skillet 2-3 minutes per side.\n" +
			"3. Finish in the oven at 200°C for 5-8 minutes.\n" +
			"4. Rest for 5 minutes before serving.",
		ingredients: []string{"Lamb"},
		categories:  []string{"Dinner", "Gluten Free"},
		servings:    2,
		image:       "https://www.themealdb.com/images/media/meals/1bsv1q1560459826.jpg",
	},
	{
		title:       "Cheesy Potato Bake",
		description: "Layered potatoes baked with cheese and butter until golden.",
		instructions: "1. Preheat the oven to 190°C and slice the potatoes thinly.\n" +
			"2. Layer potatoes in a buttered dish with grated cheese and salt.\n" +
			"3. Bake covered for 30-40 minutes, then uncovered for 10 more.\n" +
			"4. Rest for 5 minutes and serve.",
		ingredients: []string{"Potatoes", "Cheese", "Butter"},
		categories:  []string{"Dinner", "Vegetarian", "Gluten Free"},
		servings:    4,
		image:       "https://therecipeshome.com/wp-content/uploads/2025/07/0_3-1752240157235.webp",
	},
	{
		title:       "Quick Garden Salad",
		description: "Fresh lettuce salad with a light vinaigrette.",
		instructions: "1. Chop the lettuce and any other salad vegetables.\n" +
			"2. Whisk olive oil, vinegar, salt and pepper.\n" +
			"3. Toss just before serving.",
		ingredients: []string{"Lettuce"},
		categories:  []string{"Snacks", "Vegetarian", "Gluten Free", "Dairy Free"},
		servings:    2,
		image:       "https://www.themealdb.com/images/media/meals/wvpsxx1468256321.jpg",
	},
	{
		title:        "Bolon",
		description:  "Famous Ecuadorian dish usually served at brunch and with a beef stew",
		instructions: "Slice and fry the plantain, mash it lightly, mix in the chicharron and shape into balls.",
		ingredients:  []string{"Green Plantain", "Chicharron"},
		categories:   []string{"Breakfast", "Dairy Free"},
		servings:     1,
		video:        "https://www.youtube.com/embed/UaCEH8cRzpI",
		image:        "https://img.goraymi.com/2017/12/15/c33a10f623d5e94cdef6f63776408547_xl.jpg",
	},
}
