package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/noah-isme/cse-resource-hub/internal/api"
	"github.com/noah-isme/cse-resource-hub/internal/models"
	"github.com/noah-isme/cse-resource-hub/internal/service"
	"github.com/noah-isme/cse-resource-hub/pkg/config"
	"github.com/noah-isme/cse-resource-hub/pkg/logger"
)

// app wires the client core together for one CLI invocation.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	client    *api.Client
	session   *service.Session
	resources *service.ResourceService
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	client := api.NewClient(cfg, logr)
	sessions := service.NewSessionService(client, nil, logr)

	req := models.LoginRequest{
		Name:  flagName,
		Email: flagEmail,
		Role:  models.Role(flagRole),
	}
	if flagSemester > 0 {
		sem := flagSemester
		req.Semester = &sem
	}
	session, err := sessions.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		logger:    logr,
		client:    client,
		session:   session,
		resources: service.NewResourceService(client, logr),
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func (a *app) deriveFilter(rawSemester, rawSubject string) models.Filter {
	return *service.NewFilterDeriver().Derive(rawSemester, rawSubject)
}

func render(w io.Writer, items []models.Resource, canApprove bool) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No resources found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSUBJECT\tSEM\tSTATUS\tUPLOADER\tTAGS")
	for _, r := range items {
		uploader := r.UploaderName
		if uploader == "" {
			uploader = r.UploadedBy
		}
		status := string(r.Status)
		if canApprove && r.Status == models.StatusPending {
			status += " (approvable)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%v\n",
			r.ID, r.Title, r.Subject, r.Semester, status, uploader, r.Tags)
	}
	tw.Flush()
}
