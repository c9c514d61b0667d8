package handlers

import (
	"fmt"
	"net/http"

	"github.com/maynagashev/gophboard/models"
	"github.com/maynagashev/gophboard/server/internal/middleware"
)

// Hello приветствует участника по имени или анонимного посетителя.
func Hello(w http.ResponseWriter, r *http.Request) {
	name := "World"
	if member, ok := middleware.GetMemberFromContext(r.Context()); ok {
		name = member.Username
	}
	writeJSON(w, http.StatusOK, models.HelloResponse{Message: fmt.Sprintf("Hello, %s!", name)})
}
