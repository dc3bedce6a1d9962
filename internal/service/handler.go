package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// EventServiceName is the fully-qualified name of the event service.
const EventServiceName = "eventsplit.v1.EventService"

// Procedure paths, as served under the service prefix.
const (
	CreateEventProcedure       = "/" + EventServiceName + "/CreateEvent"
	GetEventProcedure          = "/" + EventServiceName + "/GetEvent"
	AddParticipantProcedure    = "/" + EventServiceName + "/AddParticipant"
	RemoveParticipantProcedure = "/" + EventServiceName + "/RemoveParticipant"
	PreviewSharesProcedure     = "/" + EventServiceName + "/PreviewShares"
	AddExpenseProcedure        = "/" + EventServiceName + "/AddExpense"
	GetSummaryProcedure        = "/" + EventServiceName + "/GetSummary"
)

// NewHandler builds an HTTP handler from the service implementation. It returns the path
// on which to mount the handler and the handler itself.
func NewHandler(svc *EventService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(CreateEventProcedure, connect.NewUnaryHandler(CreateEventProcedure, svc.CreateEvent, opts...))
	mux.Handle(GetEventProcedure, connect.NewUnaryHandler(GetEventProcedure, svc.GetEvent, opts...))
	mux.Handle(AddParticipantProcedure, connect.NewUnaryHandler(AddParticipantProcedure, svc.AddParticipant, opts...))
	mux.Handle(RemoveParticipantProcedure, connect.NewUnaryHandler(RemoveParticipantProcedure, svc.RemoveParticipant, opts...))
	mux.Handle(PreviewSharesProcedure, connect.NewUnaryHandler(PreviewSharesProcedure, svc.PreviewShares, opts...))
	mux.Handle(AddExpenseProcedure, connect.NewUnaryHandler(AddExpenseProcedure, svc.AddExpense, opts...))
	mux.Handle(GetSummaryProcedure, connect.NewUnaryHandler(GetSummaryProcedure, svc.GetSummary, opts...))

	return "/" + EventServiceName + "/", mux
}

// Client is a typed client for eventsplit.v1.EventService.
type Client struct {
	createEvent       *connect.Client[CreateEventRequest, CreateEventResponse]
	getEvent          *connect.Client[GetEventRequest, GetEventResponse]
	addParticipant    *connect.Client[AddParticipantRequest, AddParticipantResponse]
	removeParticipant *connect.Client[RemoveParticipantRequest, RemoveParticipantResponse]
	previewShares     *connect.Client[PreviewSharesRequest, PreviewSharesResponse]
	addExpense        *connect.Client[AddExpenseRequest, AddExpenseResponse]
	getSummary        *connect.Client[GetSummaryRequest, GetSummaryResponse]
}

// NewClient constructs a client for the service at baseURL, e.g. http://localhost:8080.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)

	return &Client{
		createEvent:       connect.NewClient[CreateEventRequest, CreateEventResponse](httpClient, baseURL+CreateEventProcedure, opts...),
		getEvent:          connect.NewClient[GetEventRequest, GetEventResponse](httpClient, baseURL+GetEventProcedure, opts...),
		addParticipant:    connect.NewClient[AddParticipantRequest, AddParticipantResponse](httpClient, baseURL+AddParticipantProcedure, opts...),
		removeParticipant: connect.NewClient[RemoveParticipantRequest, RemoveParticipantResponse](httpClient, baseURL+RemoveParticipantProcedure, opts...),
		previewShares:     connect.NewClient[PreviewSharesRequest, PreviewSharesResponse](httpClient, baseURL+PreviewSharesProcedure, opts...),
		addExpense:        connect.NewClient[AddExpenseRequest, AddExpenseResponse](httpClient, baseURL+AddExpenseProcedure, opts...),
		getSummary:        connect.NewClient[GetSummaryRequest, GetSummaryResponse](httpClient, baseURL+GetSummaryProcedure, opts...),
	}
}

// CreateEvent calls eventsplit.v1.EventService.CreateEvent.
func (c *Client) CreateEvent(ctx context.Context, req *connect.Request[CreateEventRequest]) (*connect.Response[CreateEventResponse], error) {
	return c.createEvent.CallUnary(ctx, req)
}

// GetEvent calls eventsplit.v1.EventService.GetEvent.
func (c *Client) GetEvent(ctx context.Context, req *connect.Request[GetEventRequest]) (*connect.Response[GetEventResponse], error) {
	return c.getEvent.CallUnary(ctx, req)
}

// AddParticipant calls eventsplit.v1.EventService.AddParticipant.
func (c *Client) AddParticipant(ctx context.Context, req *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

// RemoveParticipant calls eventsplit.v1.EventService.RemoveParticipant.
func (c *Client) RemoveParticipant(ctx context.Context, req *connect.Request[RemoveParticipantRequest]) (*connect.Response[RemoveParticipantResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

// PreviewShares calls eventsplit.v1.EventService.PreviewShares.
func (c *Client) PreviewShares(ctx context.Context, req *connect.Request[PreviewSharesRequest]) (*connect.Response[PreviewSharesResponse], error) {
	return c.previewShares.CallUnary(ctx, req)
}

// AddExpense calls eventsplit.v1.EventService.AddExpense.
func (c *Client) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

// GetSummary calls eventsplit.v1.EventService.GetSummary.
func (c *Client) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}
