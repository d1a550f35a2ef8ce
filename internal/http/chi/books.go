package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/go-playground/validator/v10"
	"github.com/marcelsud/book-lending/book"
)

const (
	msgNotFound   = "Book not found"
	msgBadRequest = "Bad Request"
	msgInternal   = "Internal Server Error"
)

var validate = validator.New()

// bookRequest is the POST /books body; both fields must be present, empty strings are allowed
type bookRequest struct {
	Name   *string `json:"name" validate:"required"`
	Author *string `json:"author" validate:"required"`
}

type bookResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Author string `json:"author"`
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(b book.Book) bookResponse {
	return bookResponse{
		ID:     b.ID,
		Name:   b.Name,
		Author: b.Author,
		Status: b.Status.String(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	oplog := httplog.LogEntry(r.Context())
	if status >= http.StatusInternalServerError {
		oplog.Error().Err(err).Int("status", status).Msg(msg)
	} else {
		oplog.Warn().Err(err).Int("status", status).Msg(msg)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func getBooks(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		all, err := bookService.List(r.Context())
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, msgInternal, err)
			return
		}
		result := make([]bookResponse, 0, len(all))
		for _, b := range all {
			result = append(result, toResponse(b))
		}
		writeJSON(w, http.StatusOK, result)
	})
}

func getBook(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := bookService.Get(r.Context(), chi.URLParam(r, "id"))
		switch {
		case errors.Is(err, book.ErrNotFound):
			writeError(w, r, http.StatusNotFound, msgNotFound, err)
			return
		case err != nil:
			writeError(w, r, http.StatusInternalServerError, msgInternal, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(b))
	})
}

// postBooks answers 400 for every failure, storage errors included
func postBooks(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var br bookRequest
		if err := json.NewDecoder(r.Body).Decode(&br); err != nil {
			writeError(w, r, http.StatusBadRequest, msgBadRequest, err)
			return
		}
		if err := validate.Struct(br); err != nil {
			writeError(w, r, http.StatusBadRequest, msgBadRequest, err)
			return
		}
		b, err := bookService.Create(r.Context(), *br.Name, *br.Author)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, msgBadRequest, err)
			return
		}
		writeJSON(w, http.StatusCreated, toResponse(b))
	})
}

// patchBook marks the book as borrowed; the request body is ignored
func patchBook(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := bookService.MarkBorrowed(r.Context(), chi.URLParam(r, "id"))
		switch {
		case errors.Is(err, book.ErrNotFound):
			writeError(w, r, http.StatusNotFound, msgNotFound, err)
			return
		case err != nil:
			writeError(w, r, http.StatusBadRequest, msgBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(b))
	})
}

func deleteBook(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := bookService.Delete(r.Context(), chi.URLParam(r, "id"))
		switch {
		case errors.Is(err, book.ErrNotFound):
			writeError(w, r, http.StatusNotFound, msgNotFound, err)
			return
		case err != nil:
			writeError(w, r, http.StatusInternalServerError, msgInternal, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
