package handler

import (
	"net/http"
	"time"

	"github.com/DioGolang/GoTodo/internal/application/usecase/todo"
	"github.com/DioGolang/GoTodo/internal/infra/web/response"
	"github.com/DioGolang/GoTodo/pkg/logger"
)

type RequestCounter interface {
	RequestCount() uint64
}

type AppInfo struct {
	Name           string
	Version        string
	Environment    string
	DeploymentTime string
	StartedAt      time.Time
}

type Info struct {
	App      AppInfo
	Stats    todo.StatsUseCase
	Requests RequestCounter
	Log      logger.Logger
}

type infoOutput struct {
	Name           string  `json:"name"`
	Version        string  `json:"version"`
	Environment    string  `json:"environment"`
	DeploymentTime string  `json:"deploymentTime"`
	Uptime         float64 `json:"uptime"`
	TotalTodos     int     `json:"totalTodos"`
	ActiveTodos    int     `json:"activeTodos"`
	CompletedTodos int     `json:"completedTodos"`
	RequestCount   uint64  `json:"requestCount"`
}

func NewInfoHandler(app AppInfo, stats todo.StatsUseCase, requests RequestCounter, log logger.Logger) *Info {
	return &Info{App: app, Stats: stats, Requests: requests, Log: log}
}

func (h *Info) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.Execute(r.Context())
	if err != nil {
		response.Error(w, r, h.Log, err)
		return
	}

	response.JSON(w, http.StatusOK, infoOutput{
		Name:           h.App.Name,
		Version:        h.App.Version,
		Environment:    h.App.Environment,
		DeploymentTime: h.App.DeploymentTime,
		Uptime:         time.Since(h.App.StartedAt).Seconds(),
		TotalTodos:     stats.Total,
		ActiveTodos:    stats.Active,
		CompletedTodos: stats.Completed,
		RequestCount:   h.Requests.RequestCount(),
	})
}
