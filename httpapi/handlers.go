package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/librarylab/lending-go/core"
	"github.com/librarylab/lending-go/features/command/borrowbook"
	"github.com/librarylab/lending-go/features/command/returnbook"
	"github.com/librarylab/lending-go/features/query/alsoborrowed"
	"github.com/librarylab/lending-go/features/query/mostborrowed"
	"github.com/librarylab/lending-go/features/query/readingpace"
	"github.com/librarylab/lending-go/features/query/topborrowers"
)

const defaultTop = 10

type bookResponse struct {
	ID            uuid.UUID `json:"id"`
	ISBN          string    `json:"isbn"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PageCount     int       `json:"pageCount"`
	PublishedYear int       `json:"publishedYear,omitempty"`
}

func toBookResponse(book core.Book) bookResponse {
	return bookResponse{
		ID:            book.ID,
		ISBN:          book.ISBN,
		Title:         book.Title,
		Author:        book.Author,
		PageCount:     book.PageCount,
		PublishedYear: book.PublishedYear,
	}
}

type userResponse struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"fullName"`
	RegisteredAt time.Time `json:"registeredAt"`
}

func toUserResponse(user core.User) userResponse {
	return userResponse{
		ID:           user.ID,
		FullName:     user.FullName,
		RegisteredAt: user.RegisteredAt,
	}
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ISBN          string `json:"isbn"`
		Title         string `json:"title"`
		Author        string `json:"author"`
		PageCount     int    `json:"pageCount"`
		PublishedYear int    `json:"publishedYear"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	book, err := s.app.CreateBook(r.Context(), req.ISBN, req.Title, req.Author, req.PageCount, req.PublishedYear)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBookResponse(book))
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.app.ListBooks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]bookResponse, 0, len(books))
	for _, book := range books {
		response = append(response, toBookResponse(book))
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName     string     `json:"fullName"`
		RegisteredAt *time.Time `json:"registeredAt"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	registeredAt := time.Now().UTC()
	if req.RegisteredAt != nil {
		registeredAt = *req.RegisteredAt
	}

	user, err := s.app.CreateUser(r.Context(), req.FullName, registeredAt)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.app.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]userResponse, 0, len(users))
	for _, user := range users {
		response = append(response, toUserResponse(user))
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleBorrowBook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID     uuid.UUID  `json:"userId"`
		BookID     uuid.UUID  `json:"bookId"`
		BorrowedAt *time.Time `json:"borrowedAt"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	borrowedAt := time.Now().UTC()
	if req.BorrowedAt != nil {
		borrowedAt = *req.BorrowedAt
	}

	result, err := s.app.BorrowBook(r.Context(), borrowbook.BuildCommand(req.UserID, req.BookID, borrowedAt))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		LoanID uuid.UUID `json:"loanId"`
	}{LoanID: result.LoanID})
}

func (s *Server) handleReturnBook(w http.ResponseWriter, r *http.Request) {
	loanID, ok := parseUUIDParam(w, r, "loanID")
	if !ok {
		return
	}

	var req struct {
		ReturnedAt *time.Time `json:"returnedAt"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	returnedAt := time.Now().UTC()
	if req.ReturnedAt != nil {
		returnedAt = *req.ReturnedAt
	}

	result, err := s.app.ReturnBook(r.Context(), returnbook.BuildCommand(loanID, returnedAt))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{Success: result.Success})
}

func (s *Server) handleMostBorrowed(w http.ResponseWriter, r *http.Request) {
	top, start, end, ok := parseRankingParams(w, r)
	if !ok {
		return
	}

	result, err := s.app.MostBorrowed(r.Context(), mostborrowed.BuildQuery(top, start, end))
	if err != nil {
		writeError(w, err)
		return
	}

	type row struct {
		BookID    uuid.UUID `json:"bookId"`
		Title     string    `json:"title"`
		Author    string    `json:"author"`
		PageCount int       `json:"pageCount"`
		Count     int       `json:"count"`
	}

	rows := make([]row, 0, len(result.Books))
	for _, b := range result.Books {
		rows = append(rows, row{BookID: b.BookID, Title: b.Title, Author: b.Author, PageCount: b.PageCount, Count: b.Count})
	}

	writeJSON(w, http.StatusOK, struct {
		Books []row `json:"books"`
		Count int   `json:"count"`
	}{Books: rows, Count: result.Count})
}

func (s *Server) handleTopBorrowers(w http.ResponseWriter, r *http.Request) {
	top, start, end, ok := parseRankingParams(w, r)
	if !ok {
		return
	}

	result, err := s.app.TopBorrowers(r.Context(), topborrowers.BuildQuery(top, start, end))
	if err != nil {
		writeError(w, err)
		return
	}

	type row struct {
		UserID   uuid.UUID `json:"userId"`
		FullName string    `json:"fullName"`
		Count    int       `json:"count"`
	}

	rows := make([]row, 0, len(result.Borrowers))
	for _, b := range result.Borrowers {
		rows = append(rows, row{UserID: b.UserID, FullName: b.FullName, Count: b.Count})
	}

	writeJSON(w, http.StatusOK, struct {
		Borrowers []row `json:"borrowers"`
		Count     int   `json:"count"`
	}{Borrowers: rows, Count: result.Count})
}

func (s *Server) handleAlsoBorrowed(w http.ResponseWriter, r *http.Request) {
	bookID, ok := parseUUIDParam(w, r, "bookID")
	if !ok {
		return
	}

	top, start, end, ok := parseRankingParams(w, r)
	if !ok {
		return
	}

	result, err := s.app.AlsoBorrowed(r.Context(), alsoborrowed.BuildQuery(bookID, top, start, end))
	if err != nil {
		writeError(w, err)
		return
	}

	type row struct {
		BookID uuid.UUID `json:"bookId"`
		Title  string    `json:"title"`
		Author string    `json:"author"`
		Count  int       `json:"count"`
	}

	rows := make([]row, 0, len(result.Books))
	for _, b := range result.Books {
		rows = append(rows, row{BookID: b.BookID, Title: b.Title, Author: b.Author, Count: b.Count})
	}

	writeJSON(w, http.StatusOK, struct {
		Books []row `json:"books"`
		Count int   `json:"count"`
	}{Books: rows, Count: result.Count})
}

func (s *Server) handleReadingPace(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userID")
	if !ok {
		return
	}

	result, err := s.app.ReadingPace(r.Context(), readingpace.BuildQuery(userID))
	if err != nil {
		writeError(w, err)
		return
	}

	type row struct {
		LoanID      uuid.UUID `json:"loanId"`
		BookID      uuid.UUID `json:"bookId"`
		BookTitle   string    `json:"bookTitle"`
		PageCount   int       `json:"pageCount"`
		Days        float64   `json:"days"`
		PagesPerDay float64   `json:"pagesPerDay"`
		BorrowedAt  time.Time `json:"borrowedAt"`
		ReturnedAt  time.Time `json:"returnedAt"`
	}

	rows := make([]row, 0, len(result.Loans))
	for _, l := range result.Loans {
		rows = append(rows, row{
			LoanID:      l.LoanID,
			BookID:      l.BookID,
			BookTitle:   l.BookTitle,
			PageCount:   l.PageCount,
			Days:        l.Days,
			PagesPerDay: l.PagesPerDay,
			BorrowedAt:  l.BorrowedAt,
			ReturnedAt:  l.ReturnedAt,
		})
	}

	writeJSON(w, http.StatusOK, struct {
		UserID      uuid.UUID `json:"userId"`
		PagesPerDay float64   `json:"pagesPerDay"`
		Loans       []row     `json:"loans"`
	}{UserID: result.UserID, PagesPerDay: result.PagesPerDay, Loans: rows})
}

func parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeBadRequest(w, name+" must be a valid uuid")
		return uuid.Nil, false
	}

	return id, true
}

// parseRankingParams reads the shared ranking query parameters:
// top (default 10) and the optional RFC 3339 window bounds start/end.
func parseRankingParams(w http.ResponseWriter, r *http.Request) (int, *time.Time, *time.Time, bool) {
	top := defaultTop
	if raw := r.URL.Query().Get("top"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeBadRequest(w, "top must be an integer")
			return 0, nil, nil, false
		}
		top = parsed
	}

	start, ok := parseTimeParam(w, r, "start")
	if !ok {
		return 0, nil, nil, false
	}

	end, ok := parseTimeParam(w, r, "end")
	if !ok {
		return 0, nil, nil, false
	}

	return top, start, end, true
}

func parseTimeParam(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeBadRequest(w, name+" must be an RFC 3339 timestamp")
		return nil, false
	}

	utc := parsed.UTC()

	return &utc, true
}
