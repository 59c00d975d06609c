package handler

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/DioGolang/GoTodo/internal/application/usecase/todo"
	"github.com/DioGolang/GoTodo/internal/domain/entity"
	"github.com/DioGolang/GoTodo/internal/infra/web/response"
	"github.com/DioGolang/GoTodo/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type Todo struct {
	CreateUseCase todo.CreateUseCase
	ListUseCase   todo.ListUseCase
	GetUseCase    todo.GetUseCase
	ToggleUseCase todo.ToggleUseCase
	DeleteUseCase todo.DeleteUseCase
	StatsUseCase  todo.StatsUseCase
	Log           logger.Logger
}

func NewTodoHandler(create todo.CreateUseCase, list todo.ListUseCase, get todo.GetUseCase,
	toggle todo.ToggleUseCase, del todo.DeleteUseCase, stats todo.StatsUseCase, log logger.Logger) *Todo {
	return &Todo{
		CreateUseCase: create,
		ListUseCase:   list,
		GetUseCase:    get,
		ToggleUseCase: toggle,
		DeleteUseCase: del,
		StatsUseCase:  stats,
		Log:           log,
	}
}

func (h *Todo) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	output, err := h.ListUseCase.Execute(r.Context(), todo.ListInput{
		Search:    q.Get("search"),
		Category:  q.Get("category"),
		Priority:  q.Get("priority"),
		Completed: q.Get("completed"),
	})
	if err != nil {
		response.Error(w, r, h.Log, err)
		return
	}
	response.JSON(w, http.StatusOK, output)
}

func (h *Todo) Get(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		response.Error(w, r, h.Log, err)
		return
	}

	output, err := h.GetUseCase.Execute(r.Context(), id)
	if err != nil {
		response.Error(w, r, h.Log, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{"success": true, "todo": output})
}

func (h *Todo) Create(w http.ResponseWriter, r *http.Request) {
	input, err := decodeCreateInput(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.PayloadTooLarge(w)
			return
		}
		response.BadRequest(w)
		return
	}

	output, err := h.CreateUseCase.Execute(r.Context(), input)
	if err != nil {
		response.Error(w, r, h.Log, err)
		return
	}

	h.Log.Info(r.Context(), "todo created",
		logger.Int64("id", output.ID),
		logger.String("category", output.Category),
		logger.String("priority", output.Priority),
	)
	response.JSON(w, http.StatusCreated, map[string]any{"success": true, "entry": output})
}

func (h *Todo) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		response.Error(w, r, h.Log, err)
		return
	}

	output, err := h.ToggleUseCase.Execute(r.Context(), id)
	if err != nil {
		response.Error(w, r, h.Log, err)
		return
	}

	h.Log.Info(r.Context(), "todo toggled",
		logger.Int64("id", output.ID),
		logger.Bool("completed", output.Completed),
	)
	response.JSON(w, http.StatusOK, map[string]any{"success": true, "todo": output})
}

func (h *Todo) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		response.Error(w, r, h.Log, err)
		return
	}

	if err := h.DeleteUseCase.Execute(r.Context(), id); err != nil {
		response.Error(w, r, h.Log, err)
		return
	}

	h.Log.Info(r.Context(), "todo deleted", logger.Int64("id", id))
	response.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Todo) Stats(w http.ResponseWriter, r *http.Request) {
	output, err := h.StatsUseCase.Execute(r.Context())
	if err != nil {
		response.Error(w, r, h.Log, err)
		return
	}
	response.JSON(w, http.StatusOK, output)
}

func todoID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, entity.ErrInvalidID
	}
	return id, nil
}

// decodeCreateInput accepts JSON or urlencoded form bodies.
func decodeCreateInput(r *http.Request) (todo.CreateInput, error) {
	var input todo.CreateInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return input, err
		}
		input.Task = r.PostForm.Get("task")
		input.Description = r.PostForm.Get("description")
		input.Category = r.PostForm.Get("category")
		input.Priority = r.PostForm.Get("priority")
		input.DueDate = r.PostForm.Get("dueDate")
		return input, nil
	}

	err := json.NewDecoder(r.Body).Decode(&input)
	return input, err
}
