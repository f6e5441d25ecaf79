package methods

import (
	"context"
	"fmt"

	"github.com/umk/paradigms/internal/services"
	"github.com/umk/paradigms/jsonrpc2"
)

type userFields struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
	Age   *int    `json:"age" validate:"omitempty,gte=0,lte=150"`
}

func createUser(users *services.UserStore) jsonrpc2.HandlerFunc {
	return func(ctx context.Context, args jsonrpc2.Args) (any, error) {
		var p struct {
			Name  string `json:"name" validate:"required"`
			Email string `json:"email" validate:"required,email"`
			Age   *int   `json:"age" validate:"omitempty,gte=0,lte=150"`
		}
		if err := args.Struct(&p); err != nil {
			return nil, err
		}
		return users.Create(p.Name, p.Email, p.Age)
	}
}

func getUser(users *services.UserStore) jsonrpc2.HandlerFunc {
	return func(ctx context.Context, args jsonrpc2.Args) (any, error) {
		var id int
		if err := args.Decode(0, &id); err != nil {
			return nil, err
		}
		return users.Get(id)
	}
}

func updateUser(users *services.UserStore) jsonrpc2.HandlerFunc {
	return func(ctx context.Context, args jsonrpc2.Args) (any, error) {
		var p struct {
			UserID int `json:"user_id"`
			userFields
		}
		if err := args.Struct(&p); err != nil {
			return nil, err
		}
		return users.Update(p.UserID, services.UserUpdate{
			Name:  p.Name,
			Email: p.Email,
			Age:   p.Age,
		})
	}
}

func deleteUser(users *services.UserStore) jsonrpc2.HandlerFunc {
	return func(ctx context.Context, args jsonrpc2.Args) (any, error) {
		var id int
		if err := args.Decode(0, &id); err != nil {
			return nil, err
		}
		if err := users.Delete(id); err != nil {
			return nil, err
		}
		return map[string]string{"message": fmt.Sprintf("User %d deleted successfully", id)}, nil
	}
}

func listUsers(users *services.UserStore) jsonrpc2.HandlerFunc {
	return func(ctx context.Context, args jsonrpc2.Args) (any, error) {
		return users.List(), nil
	}
}
