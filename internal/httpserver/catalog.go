package httpserver

import (
	"errors"
	"net/http"

	"rozo-books/internal/domain"

	"github.com/gin-gonic/gin"
)

func listBooksHandler(svc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		books, err := svc.Search(c.Request.Context(), c.Query("q"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog"})
			return
		}
		if books == nil {
			books = []domain.Book{}
		}
		c.JSON(http.StatusOK, gin.H{"books": books})
	}
}

func getBookHandler(svc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		book, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load book"})
			return
		}
		c.JSON(http.StatusOK, book)
	}
}

func listCategoriesHandler(svc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := svc.Categories(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load categories"})
			return
		}
		if categories == nil {
			categories = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}
