package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/orderguard/internal/adapter/session"
	"github.com/neomorfeo/orderguard/internal/app"
	"github.com/neomorfeo/orderguard/internal/domain"
)

// OrderResponse is the API representation of an order.
type OrderResponse struct {
	ID           string `json:"id" doc:"Unique identifier"`
	TenantID     string `json:"tenant_id" doc:"Owning tenant"`
	CustomerName string `json:"customer_name" doc:"Customer display name"`
	Status       string `json:"status" doc:"Lifecycle state"`
	CreatedAt    string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt    string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toOrderResponse(o domain.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		TenantID:     o.TenantID,
		CustomerName: o.CustomerName,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    o.UpdatedAt.Format(time.RFC3339),
	}
}

// --- Sessions ---

type CreateSessionInput struct {
	Body struct {
		TenantID string `json:"tenant_id" minLength:"1" doc:"Tenant to sign in to"`
		Role     string `json:"role" enum:"admin,staff" doc:"Role within the tenant"`
		Username string `json:"username" minLength:"1" maxLength:"100" doc:"Display name"`
	}
}

type SessionResponse struct {
	Token     string `json:"token" doc:"Bearer token for subsequent requests"`
	ExpiresAt string `json:"expires_at" doc:"Token expiry (ISO 8601)"`
	TenantID  string `json:"tenant_id" doc:"Tenant the session is scoped to"`
	Role      string `json:"role" doc:"Role held in the tenant"`
}

type CreateSessionOutput struct {
	Body SessionResponse
}

// --- Orders ---

type ListOrdersInput struct{}

type ListOrdersOutput struct {
	Body []OrderResponse
}

type CreateOrderInput struct {
	Body struct {
		CustomerName string `json:"customer_name" maxLength:"255" doc:"Customer display name (must not be blank)"`
		Status       string `json:"status,omitempty" default:"pending" enum:"pending,in_progress,completed" doc:"Initial status"`
	}
}

type OrderOutput struct {
	Body OrderResponse
}

type ChangeStatusInput struct {
	ID   string `path:"id" doc:"Order ID"`
	Body struct {
		Status string `json:"status" enum:"pending,in_progress,completed" doc:"New status"`
	}
}

type DeleteOrderInput struct {
	ID string `path:"id" doc:"Order ID"`
}

// Register adds the session and order API routes to the Huma API.
// knownTenants restricts mock login; an empty list accepts any tenant.
func Register(api huma.API, svc *app.OrderService, sessions *session.Issuer, knownTenants []string) {
	tenants := make(map[string]struct{}, len(knownTenants))
	for _, t := range knownTenants {
		tenants[t] = struct{}{}
	}

	huma.Register(api, huma.Operation{
		OperationID: "create-session",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions",
		Summary:     "Sign in to a tenant with a role (mock login, no credentials)",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
		if _, ok := tenants[input.Body.TenantID]; len(tenants) > 0 && !ok {
			return nil, huma.Error422UnprocessableEntity("unknown tenant")
		}

		actor := domain.Actor{TenantID: input.Body.TenantID, Role: domain.Role(input.Body.Role)}
		token, expiresAt, err := sessions.Issue(actor, input.Body.Username)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}

		return &CreateSessionOutput{Body: SessionResponse{
			Token:     token,
			ExpiresAt: expiresAt.Format(time.RFC3339),
			TenantID:  actor.TenantID,
			Role:      string(actor.Role),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-orders",
		Method:      http.MethodGet,
		Path:        "/api/v1/orders",
		Summary:     "List the caller's tenant orders",
		Tags:        []string{"Orders"},
	}, func(ctx context.Context, _ *ListOrdersInput) (*ListOrdersOutput, error) {
		actor, err := requireActor(ctx)
		if err != nil {
			return nil, err
		}

		orders, err := svc.List(ctx, actor.TenantID)
		if err != nil {
			return nil, toHumaError(ctx, err)
		}

		resp := make([]OrderResponse, len(orders))
		for i, o := range orders {
			resp[i] = toOrderResponse(o)
		}
		return &ListOrdersOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-order",
		Method:      http.MethodPost,
		Path:        "/api/v1/orders",
		Summary:     "Create an order in the caller's tenant",
		Tags:        []string{"Orders"},
	}, func(ctx context.Context, input *CreateOrderInput) (*OrderOutput, error) {
		actor, err := requireActor(ctx)
		if err != nil {
			return nil, err
		}

		order, err := svc.Create(ctx, actor, input.Body.CustomerName, domain.Status(input.Body.Status))
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &OrderOutput{Body: toOrderResponse(order)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "change-order-status",
		Method:      http.MethodPost,
		Path:        "/api/v1/orders/{id}/status",
		Summary:     "Change an order's status",
		Tags:        []string{"Orders"},
	}, func(ctx context.Context, input *ChangeStatusInput) (*OrderOutput, error) {
		actor, err := requireActor(ctx)
		if err != nil {
			return nil, err
		}

		order, err := svc.ChangeStatus(ctx, actor, input.ID, domain.Status(input.Body.Status))
		if err != nil {
			return nil, toHumaError(ctx, err)
		}
		return &OrderOutput{Body: toOrderResponse(order)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-order",
		Method:        http.MethodDelete,
		Path:          "/api/v1/orders/{id}",
		Summary:       "Delete an order (admins only)",
		Tags:          []string{"Orders"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *DeleteOrderInput) (*struct{}, error) {
		actor, err := requireActor(ctx)
		if err != nil {
			return nil, err
		}

		if err := svc.Delete(ctx, actor, input.ID); err != nil {
			return nil, toHumaError(ctx, err)
		}
		return nil, nil
	})
}

func requireActor(ctx context.Context) (domain.Actor, error) {
	actor, ok := session.ActorFromContext(ctx)
	if !ok {
		return domain.Actor{}, huma.Error401Unauthorized("missing or invalid session")
	}
	return actor, nil
}

// toHumaError translates domain errors to Huma HTTP errors.
// Denials keep their message so the caller can see which rule failed.
func toHumaError(ctx context.Context, err error) error {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return huma.Error422UnprocessableEntity(vErr.Error())
	}

	if errors.Is(err, domain.ErrOrderNotFound) {
		return huma.Error404NotFound("order not found")
	}

	if errors.Is(err, domain.ErrCrossTenantAccess) || errors.Is(err, domain.ErrPermissionDenied) {
		return huma.Error403Forbidden(err.Error())
	}

	var cErr *domain.ConflictError
	if errors.As(err, &cErr) {
		return huma.Error409Conflict(cErr.Error())
	}

	slog.ErrorContext(ctx, "request failed", "error", err)
	return huma.Error500InternalServerError("internal server error")
}
