package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/studytrack/api/internal/service/auth"
	"github.com/studytrack/api/internal/service/note"
	"github.com/studytrack/api/internal/service/subject"
	"github.com/studytrack/api/internal/service/task"
)

func (r *Router) handleSignup(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, err := r.auth.Signup(req.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		r.respondServiceError(w, req, err, "not found")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	token, err := r.auth.Login(req.Context(), payload.Email, payload.Password)
	if err != nil {
		// Unknown email and wrong password surface as one error.
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusBadRequest, "invalid credentials")
			return
		}
		r.respondServiceError(w, req, err, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (r *Router) actingUser(w http.ResponseWriter, req *http.Request) (string, bool) {
	info, ok := authInfoFromContext(req.Context())
	if !ok || info.UserID == "" {
		r.logger.Error("auth context missing", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return "", false
	}
	return info.UserID, true
}

func (r *Router) handleListSubjects(w http.ResponseWriter, req *http.Request) {
	userID, ok := r.actingUser(w, req)
	if !ok {
		return
	}
	subjects, err := r.subjects.List(req.Context(), userID)
	if err != nil {
		r.respondServiceError(w, req, err, "subject not found")
		return
	}
	writeJSON(w, http.StatusOK, subjects)
}

func (r *Router) handleCreateSubject(w http.ResponseWriter, req *http.Request) {
	userID, ok := r.actingUser(w, req)
	if !ok {
		return
	}
	var input subject.CreateInput
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	created, err := r.subjects.Create(req.Context(), userID, input)
	if err != nil {
		r.respondServiceError(w, req, err, "subject not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (r *Router) handleUpdateSubject(w http.ResponseWriter, req *http.Request) {
	userID, ok := r.actingUser(w, req)
	if !ok {
		return
	}
	var input subject.UpdateInput
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	updated, err := r.subjects.Update(req.Context(), userID, req.PathValue("id"), input)
	if err != nil {
		r.respondServiceError(w, req, err, "subject not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (r *Router) handleDeleteSubject(w http.ResponseWriter, req *http.Request) {
	userID, ok := r.actingUser(w, req)
	if !ok {
		return
	}
	if err := r.subjects.Delete(req.Context(), userID, req.PathValue("id")); err != nil {
		r.respondServiceError(w, req, err, "subject not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "subject deleted"})
}

func (r *Router) handleListTasks(w http.ResponseWriter, req *http.Request) {
	userID, ok := r.actingUser(w, req)
	if !ok {
		return
	}
	tasks, err := r.tasks.List(req.Context(), userID, req.URL.Query().Get("subjectId"))
	if err != nil {
		r.respondServiceError(w, req, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (r *Router) handleCreateTask(w http.ResponseWriter, req *http.Request) {
	userID, ok := r.actingUser(w, req)
	if !ok {
		return
	}
	var input task.CreateInput
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	created, err := r.tasks.Create(req.Context(), userID, input)
	if err != nil {
		r.respondServiceError(w, req, err, "task not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (r *Router) handleUpdateTask(w http.ResponseWriter, req *http.Request) {
	userID, ok := r.actingUser(w, req)
	if !ok {
		return
	}
	var input task.UpdateInput
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	updated, err := r.tasks.Update(req.Context(), userID, req.PathValue("id"), input)
	if err != nil {
		r.respondServiceError(w, req, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (r *Router) handleDeleteTask(w http.ResponseWriter, req *http.Request) {
	userID, ok := r.actingUser(w, req)
	if !ok {
		return
	}
	if err := r.tasks.Delete(req.Context(), userID, req.PathValue("id")); err != nil {
		r.respondServiceError(w, req, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
}

func (r *Router) handleListNotes(w http.ResponseWriter, req *http.Request) {
	userID, ok := r.actingUser(w, req)
	if !ok {
		return
	}
	notes, err := r.notes.List(req.Context(), userID, req.URL.Query().Get("subjectId"))
	if err != nil {
		r.respondServiceError(w, req, err, "note not found")
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (r *Router) handleCreateNote(w http.ResponseWriter, req *http.Request) {
	userID, ok := r.actingUser(w, req)
	if !ok {
		return
	}
	var input note.CreateInput
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	created, err := r.notes.Create(req.Context(), userID, input)
	if err != nil {
		r.respondServiceError(w, req, err, "note not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (r *Router) handleUpdateNote(w http.ResponseWriter, req *http.Request) {
	userID, ok := r.actingUser(w, req)
	if !ok {
		return
	}
	var input note.UpdateInput
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	updated, err := r.notes.Update(req.Context(), userID, req.PathValue("id"), input)
	if err != nil {
		r.respondServiceError(w, req, err, "note not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (r *Router) handleDeleteNote(w http.ResponseWriter, req *http.Request) {
	userID, ok := r.actingUser(w, req)
	if !ok {
		return
	}
	if err := r.notes.Delete(req.Context(), userID, req.PathValue("id")); err != nil {
		r.respondServiceError(w, req, err, "note not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "note deleted"})
}
