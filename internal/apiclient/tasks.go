package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kazz187/novapm/internal/task"
)

func (c *Client) Tasks(ctx context.Context, token string) ([]task.Task, error) {
	return list[task.Task](ctx, c, call{
		endpoint: "/tasks/list/",
		path:     "/tasks/list/",
		token:    token,
		fallback: LoadFailedMessage,
	})
}

func (c *Client) CreateTask(ctx context.Context, token string, req task.CreateRequest) (*task.Task, error) {
	var out task.Task
	err := c.do(ctx, call{
		method:   http.MethodPost,
		endpoint: "/tasks/create/",
		path:     "/tasks/create/",
		token:    token,
		body:     req,
		fallback: "Failed to create task",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteTask calls the task DELETE endpoint, which the API implements as a
// soft complete. It returns the API's confirmation text when there is one.
func (c *Client) CompleteTask(ctx context.Context, token string, id int) (string, error) {
	var out struct {
		Detail string `json:"detail"`
	}
	err := c.do(ctx, call{
		method:   http.MethodDelete,
		endpoint: "/tasks/{id}/delete/",
		path:     fmt.Sprintf("/tasks/%d/delete/", id),
		token:    token,
		fallback: "Failed to complete task",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Detail, nil
}
