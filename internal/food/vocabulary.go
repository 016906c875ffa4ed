package food

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FoodVocabulary is the keyword list that marks a recognized tag as food.
// A tag matches when its lower-cased name contains any keyword.
var FoodVocabulary = []string{
	"food", "fruit", "vegetable", "meat", "dish", "meal", "cuisine",
	"bread", "pizza", "burger", "sandwich", "salad", "soup", "dessert",
	"rice", "pasta", "noodle", "chicken", "beef", "pork", "fish", "seafood",
	"egg", "apple", "banana", "orange", "strawberry", "grape", "berry",
	"potato", "tomato", "carrot", "broccoli", "pepper", "onion",
	"cheese", "milk", "yogurt", "cream", "butter",
	"cake", "cookie", "pastry", "chocolate", "candy", "sweet",
	"drink", "beverage", "juice", "coffee", "tea",
	"breakfast", "lunch", "dinner", "snack",
}

func matchesVocabulary(name string, vocabulary []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range vocabulary {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// capitalizeWords upper-cases the first letter of each word and lower-cases the rest.
func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		w = strings.ToLower(w)
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
