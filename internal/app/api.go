package app

import (
	"context"

	"curator/internal/client"
	"curator/internal/types"
)

type GroupAPI interface {
	ListGroups(ctx context.Context) ([]*types.Group, error)
	GetGroup(ctx context.Context, id int64) (*types.Group, error)
	CreateGroup(ctx context.Context, title string, brand *types.BrandInfo) (*types.Group, error)
	UpdateGroup(ctx context.Context, id int64, req client.UpdateGroupRequest) (*types.Group, error)
	DeleteGroup(ctx context.Context, id int64) error
	AddBindings(ctx context.Context, groupID int64, promptIDs []int64) (*client.BindingChange, error)
	RemoveBindings(ctx context.Context, groupID int64, promptIDs []int64) error
	GetReportPreview(ctx context.Context, groupID int64) (*client.ReportPreviewResponse, error)
}

type WizardAPI interface {
	Analyze(ctx context.Context, target, locale string) (*client.AnalyzeResponse, error)
	LoadTopicPrompts(ctx context.Context, topics []string) (map[string][]*types.Prompt, error)
	Generate(ctx context.Context, req client.GenerateRequest) (*client.GenerateResponse, error)
	CreatePrompts(ctx context.Context, texts []string) (*client.CreatePromptsResponse, error)
}

type BillingAPI interface {
	GetBalance(ctx context.Context) (*types.Balance, error)
	GetGenerationPrice(ctx context.Context) (*types.GenerationPrice, error)
}

type ClientAPI struct {
	client *client.Client
}

func NewClientAPI(client *client.Client) *ClientAPI {
	return &ClientAPI{client: client}
}

func (a *ClientAPI) ListGroups(ctx context.Context) ([]*types.Group, error) {
	return a.client.ListGroups(ctx)
}

func (a *ClientAPI) GetGroup(ctx context.Context, id int64) (*types.Group, error) {
	return a.client.GetGroup(ctx, id)
}

func (a *ClientAPI) CreateGroup(ctx context.Context, title string, brand *types.BrandInfo) (*types.Group, error) {
	return a.client.CreateGroup(ctx, title, brand)
}

func (a *ClientAPI) UpdateGroup(ctx context.Context, id int64, req client.UpdateGroupRequest) (*types.Group, error) {
	return a.client.UpdateGroup(ctx, id, req)
}

func (a *ClientAPI) DeleteGroup(ctx context.Context, id int64) error {
	return a.client.DeleteGroup(ctx, id)
}

func (a *ClientAPI) AddBindings(ctx context.Context, groupID int64, promptIDs []int64) (*client.BindingChange, error) {
	return a.client.AddBindings(ctx, groupID, promptIDs)
}

func (a *ClientAPI) RemoveBindings(ctx context.Context, groupID int64, promptIDs []int64) error {
	return a.client.RemoveBindings(ctx, groupID, promptIDs)
}

func (a *ClientAPI) GetReportPreview(ctx context.Context, groupID int64) (*client.ReportPreviewResponse, error) {
	return a.client.GetReportPreview(ctx, groupID)
}

func (a *ClientAPI) Analyze(ctx context.Context, target, locale string) (*client.AnalyzeResponse, error) {
	return a.client.Analyze(ctx, target, locale)
}

func (a *ClientAPI) LoadTopicPrompts(ctx context.Context, topics []string) (map[string][]*types.Prompt, error) {
	return a.client.LoadTopicPrompts(ctx, topics)
}

func (a *ClientAPI) Generate(ctx context.Context, req client.GenerateRequest) (*client.GenerateResponse, error) {
	return a.client.Generate(ctx, req)
}

func (a *ClientAPI) CreatePrompts(ctx context.Context, texts []string) (*client.CreatePromptsResponse, error) {
	return a.client.CreatePrompts(ctx, texts)
}

func (a *ClientAPI) GetBalance(ctx context.Context) (*types.Balance, error) {
	return a.client.GetBalance(ctx)
}

func (a *ClientAPI) GetGenerationPrice(ctx context.Context) (*types.GenerationPrice, error) {
	return a.client.GetGenerationPrice(ctx)
}
