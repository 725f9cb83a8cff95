package catalog

import domain "github.com/Zhima-Mochi/bookstore-saga/internal/domain/catalog"

// Seed is the starting inventory of a fresh catalog service.
func Seed() []domain.Product {
	return []domain.Product{
		{ID: 1, Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Price: 12.99, Stock: 45},
		{ID: 2, Title: "To Kill a Mockingbird", Author: "Harper Lee", Price: 14.99, Stock: 32},
		{ID: 3, Title: "1984", Author: "George Orwell", Price: 13.99, Stock: 28},
		{ID: 4, Title: "Pride and Prejudice", Author: "Jane Austen", Price: 11.99, Stock: 50},
		{ID: 5, Title: "The Catcher in the Rye", Author: "J.D. Salinger", Price: 13.49, Stock: 22},
		{ID: 6, Title: "The Hobbit", Author: "J.R.R. Tolkien", Price: 15.99, Stock: 38},
		{ID: 7, Title: "Dune", Author: "Frank Herbert", Price: 10.00, Stock: 5},
		{ID: 8, Title: "Sapiens", Author: "Yuval Noah Harari", Price: 18.99, Stock: 0},
	}
}
