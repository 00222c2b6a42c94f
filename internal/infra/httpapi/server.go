// Package httpapi exposes the on-demand dispatch triggers and the
// profile/ingredient management endpoints.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"mealplan_delivery_service/internal/app"
	"mealplan_delivery_service/internal/domain/ingredient"
	"mealplan_delivery_service/internal/domain/mealplan"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer  *http.Server
	dispatch    *app.DispatchService
	schedule    *app.ScheduleService
	plans       mealplan.Repository
	ingredients ingredient.Repository
	log         *logrus.Logger
}

func NewServer(
	addr string,
	dispatch *app.DispatchService,
	schedule *app.ScheduleService,
	plans mealplan.Repository,
	ingredients ingredient.Repository,
	log *logrus.Logger,
) *Server {
	s := &Server{
		dispatch:    dispatch,
		schedule:    schedule,
		plans:       plans,
		ingredients: ingredients,
		log:         log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/users/{email}", func(r chi.Router) {
		r.Post("/dispatch/run", s.handleDispatchRun)
		r.Post("/dispatch/send", s.handleSendNow)
		r.Get("/plans/today", s.handleTodayPlan)
		r.Patch("/schedule", s.handleUpdateSchedule)
		r.Get("/ingredients", s.handleListIngredients)
		r.Put("/ingredients", s.handleReplaceIngredients)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
	}
	return s
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.log.Infof("HTTP API listening on %s", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
