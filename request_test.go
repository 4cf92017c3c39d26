// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package aspi

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/harshtalks/aspi/request"
	"github.com/harshtalks/aspi/result"
	"github.com/harshtalks/aspi/retry"
	"github.com/harshtalks/aspi/schema"
)

func TestRequest_Build(t *testing.T) {
	cl := &Client{
		BaseURL: "https://api.example.com/v1/",
		Header:  http.Header{"X-Client": {"c"}, "X-Shared": {"client"}},
	}

	t.Run("url", func(t *testing.T) {
		testCases := []struct {
			name string
			req  *Request[any]
			url  string
		}{
			{"relative", Get[any](cl, "todos/1"), "https://api.example.com/v1/todos/1"},
			{"leading slash", Get[any](cl, "/todos/1"), "https://api.example.com/v1/todos/1"},
			{"absolute", Get[any](cl, "http://other.example.com/x"), "http://other.example.com/x"},
			{"query", Get[any](cl, "/todos?a=1").Query("b", "2").Query("b", "3"), "https://api.example.com/v1/todos?a=1&b=3"},
			{"queries", Get[any](cl, "/todos").Queries(url.Values{"q": {"x y"}}), "https://api.example.com/v1/todos?q=x+y"},
		}
		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				p, err := testCase.req.Build(context.Background())
				require.NoError(t, err)
				assert.Equal(t, testCase.url, p.URL.String())
			})
		}
	})
	t.Run("headers", func(t *testing.T) {
		p, err := Post[any](cl, "/").
			Header("X-Shared", "first").
			Headers(http.Header{"x-shared": {"request"}, "X-Multi": {"a", "b"}}).
			Bearer("t0k3n").
			Cookie(&http.Cookie{Name: "a", Value: "1"}).
			Cookie(&http.Cookie{Name: "b", Value: "2"}).
			Build(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "POST", p.Method)
		assert.Equal(t, "c", p.Header.Get("X-Client"))
		assert.Equal(t, []string{"request"}, p.Header.Values("X-Shared"))
		assert.Equal(t, []string{"a", "b"}, p.Header.Values("X-Multi"))
		assert.Equal(t, "Bearer t0k3n", p.Header.Get("Authorization"))
		assert.Equal(t, "a=1; b=2", p.Header.Get("Cookie"))
		assert.Equal(t, []string{"client"}, cl.Header.Values("X-Shared"))
	})
	t.Run("auth last write wins", func(t *testing.T) {
		p, err := Get[any](cl, "/").Bearer("t").BasicAuth("Aladdin", "open sesame").Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Basic QWxhZGRpbjpvcGVuIHNlc2FtZQ==", p.Header.Get("Authorization"))
	})
	t.Run("body", func(t *testing.T) {
		p, err := Post[any](cl, "/").Body("plain").Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []byte("plain"), p.Body)

		p, err = Post[any](cl, "/").Body(strings.NewReader("read")).Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []byte("read"), p.Body)

		p, err = Post[any](cl, "/").Body("plain").JSON(map[string]int{"n": 1}).Build(context.Background())
		require.NoError(t, err)
		assert.JSONEq(t, `{"n":1}`, string(p.Body))
		assert.Equal(t, "application/json", p.Header.Get("Content-Type"))

		p, err = Post[any](cl, "/").JSON(1).Header("Content-Type", "application/vnd.api+json").Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "application/vnd.api+json", p.Header.Get("Content-Type"))
	})
	t.Run("context", func(t *testing.T) {
		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, "v")
		p, err := Get[any](cl, "/").Build(ctx)
		require.NoError(t, err)
		assert.Equal(t, "v", p.Context().Value(key{}))
	})
	t.Run("errors", func(t *testing.T) {
		testCases := []struct {
			name string
			req  *Request[any]
		}{
			{"method", JSON[any](cl, "BAD METHOD", "/")},
			{"header name", Get[any](cl, "/").Header("bad name", "x")},
			{"header value", Get[any](cl, "/").Header("X-Bad", "a\nb")},
			{"url", JSON[any](&Client{}, "GET", "relative/only")},
			{"json", Post[any](cl, "/").JSON(make(chan int))},
			{"body type", Post[any](cl, "/").Body(42)},
		}
		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				_, err := testCase.req.Build(context.Background())
				require.Error(t, err)
				assert.True(t, strings.HasPrefix(err.Error(), "aspi: "), err.Error())
			})
		}
	})
	t.Run("nil client", func(t *testing.T) {
		assert.PanicsWithValue(t, "aspi: nil client", func() { Get[any](nil, "/") })
	})
}

func TestRequest_BuildErrorOutcome(t *testing.T) {
	mockDoer := newMockHTTPDoer(t)
	cl := &Client{HTTPDoer: mockDoer}

	_, err := Get[any](cl, "no-base").Do(context.Background())

	require.Error(t, err)
	assert.Equal(t, KindOther, Kind(err))
	mockDoer.AssertNotCalled(t, "Do", mock.Anything)
}

func TestRequest_BodySchema(t *testing.T) {
	type todo struct {
		Title string `json:"title" validate:"required"`
	}
	title := schema.Any[todo](schema.Struct[todo]())

	t.Run("rejected", func(t *testing.T) {
		mockDoer := newMockHTTPDoer(t)
		cl := &Client{BaseURL: "http://example.com", HTTPDoer: mockDoer}

		out := Post[any](cl, "/todos").
			JSON(todo{}).
			BodySchema(title).
			Retry(retry.Policy{Attempts: 3, StatusCodes: []int{500}}).
			Outcome(context.Background())

		var de *DecodeError
		require.ErrorAs(t, out.Error(), &de)
		assert.Equal(t, SchemaErrorTag, de.Tag)
		require.Len(t, de.Issues, 1)
		assert.Equal(t, []string{"Title"}, de.Issues[0].Path)
		assert.Nil(t, de.Response)
		assert.Equal(t, "/todos", de.Plan.URL.Path)
		mockDoer.AssertNotCalled(t, "Do", mock.Anything)
	})
	t.Run("rejected and unencodable", func(t *testing.T) {
		mockDoer := newMockHTTPDoer(t)
		cl := &Client{BaseURL: "http://example.com", HTTPDoer: mockDoer}
		reject := schema.Func[any](func(v any) (any, []schema.Issue) {
			return v, []schema.Issue{{Message: "channels are not allowed"}}
		})

		out := Post[any](cl, "/todos").
			JSON(make(chan int)).
			BodySchema(reject).
			Outcome(context.Background())

		var de *DecodeError
		require.ErrorAs(t, out.Error(), &de)
		assert.Equal(t, KindDecode, Kind(out.Error()))
		assert.Equal(t, SchemaErrorTag, de.Tag)
		assert.Nil(t, de.Plan)
		assert.Nil(t, de.Response)
		mockDoer.AssertNotCalled(t, "Do", mock.Anything)
	})
	t.Run("accepted and narrowed", func(t *testing.T) {
		mockDoer := newMockHTTPDoer(t)
		mockDoer.On("Do", mock.MatchedBy(func(req *http.Request) bool {
			rc, err := req.GetBody()
			if err != nil {
				return false
			}
			b, err := request.BodyBytes(rc)
			return err == nil && string(b) == `{"title":"TRIMMED"}`
		})).Return(newResponse(201, ""), nil).Once()
		cl := &Client{BaseURL: "http://example.com", HTTPDoer: mockDoer}
		upper := schema.Func[any](func(v any) (any, []schema.Issue) {
			t := v.(todo)
			t.Title = strings.ToUpper(strings.TrimSpace(t.Title))
			return t, nil
		})

		_, err := Post[any](cl, "/todos").JSON(todo{Title: " trimmed "}).BodySchema(upper).Do(context.Background())

		require.NoError(t, err)
		mockDoer.AssertExpectations(t)
	})
	t.Run("raw body", func(t *testing.T) {
		mockDoer := newMockHTTPDoer(t)
		cl := &Client{BaseURL: "http://example.com", HTTPDoer: mockDoer}
		nonEmpty := schema.Func[any](func(v any) (any, []schema.Issue) {
			if v.(string) == "" {
				return v, []schema.Issue{{Code: "empty", Message: "body is empty"}}
			}
			return v, nil
		})

		_, err := Post[any](cl, "/").Body("").BodySchema(nonEmpty).Do(context.Background())

		assert.Equal(t, KindDecode, Kind(err))
		assert.Equal(t, SchemaErrorTag, Tag(err))
		assert.Contains(t, err.Error(), "body is empty")
	})
}

func TestRequest_Tags(t *testing.T) {
	cl := &Client{}
	req := Get[any](cl, "/").
		NotFound(func(ErrorContext) any { return nil }).
		BadRequest(func(ErrorContext) any { return nil }).
		OnError(418, "teapot", func(ErrorContext) any { return nil }).
		Unauthorized(func(ErrorContext) any { return nil }).
		Forbidden(func(ErrorContext) any { return nil }).
		Conflict(func(ErrorContext) any { return nil }).
		TooManyRequests(func(ErrorContext) any { return nil }).
		InternalServerError(func(ErrorContext) any { return nil }).
		OnError(404, "missing", func(ErrorContext) any { return nil })

	assert.Equal(t, []string{
		"missing",
		"badRequestError",
		"teapot",
		"unauthorizedError",
		"forbiddenError",
		"conflictError",
		"tooManyRequestsError",
		"internalServerError",
	}, req.Tags())
	assert.Empty(t, Get[any](cl, "/").Tags())
	assert.PanicsWithValue(t, "aspi: nil error handler", func() { req.NotFound(nil) })
}

func TestRequest_Mode(t *testing.T) {
	cl := &Client{}
	testCases := []struct {
		name string
		req  *Request[any]
		mode Mode
	}{
		{"default", Get[any](cl, "/"), PairMode},
		{"result", Get[any](cl, "/").WithResult(), ResultMode},
		{"throw", Get[any](cl, "/").Throwable(), ThrowMode},
		{"result then throw", Get[any](cl, "/").WithResult().Throwable(), ThrowMode},
		{"throw then result", Get[any](cl, "/").Throwable().WithResult(), ResultMode},
		{"throw then pair", Get[any](cl, "/").Throwable().WithPair(), PairMode},
		{"pair then result", Get[any](cl, "/").WithPair().WithResult(), ResultMode},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.mode, testCase.req.Mode())
		})
	}
}

func TestRequest_Execute(t *testing.T) {
	newClient := func(t *testing.T, code int, body string) *Client {
		mockDoer := newMockHTTPDoer(t)
		mockDoer.On("Do", mock.Anything).Return(newResponse(code, body), nil).Once()
		return &Client{BaseURL: "https://api.example.com", HTTPDoer: mockDoer}
	}
	notFound := func(req *Request[any]) *Request[any] {
		return req.NotFound(func(ErrorContext) any { return map[string]any{"message": "custom"} })
	}

	t.Run("protocol error", func(t *testing.T) {
		t.Run("pair", func(t *testing.T) {
			cl := newClient(t, 404, `{"message":"not found"}`)
			pair, ok := Get[any](cl, "/todos/1").Execute(context.Background()).(Pair[any])
			require.True(t, ok)
			assert.Nil(t, pair.Data)
			var pe *ProtocolError
			require.ErrorAs(t, pair.Err, &pe)
			assert.Equal(t, 404, pe.StatusCode())
			assert.Equal(t, "NOT_FOUND", pe.Status())
			assert.Equal(t, "https://api.example.com/todos/1", pe.Plan.URL.String())
			assert.Equal(t, map[string]any{"message": "not found"}, pe.Body())
		})
		t.Run("result", func(t *testing.T) {
			cl := newClient(t, 404, "")
			out, ok := Get[any](cl, "/todos/1").WithResult().Execute(context.Background()).(result.Result[*Success[any]])
			require.True(t, ok)
			assert.True(t, out.IsErr())
			assert.Equal(t, KindProtocol, Kind(out.Error()))
		})
		t.Run("throw", func(t *testing.T) {
			cl := newClient(t, 404, "")
			req := Get[any](cl, "/todos/1").Throwable()
			assert.PanicsWithError(t, "aspi: GET https://api.example.com/todos/1: 404 NOT_FOUND", func() { req.Execute(context.Background()) })
		})
	})
	t.Run("custom error", func(t *testing.T) {
		check := func(t *testing.T, err error) {
			var ce *CustomError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "notFoundError", ce.Tag)
			assert.Equal(t, map[string]any{"message": "custom"}, ce.Data)
		}
		t.Run("pair", func(t *testing.T) {
			cl := newClient(t, 404, `{"message":"not found"}`)
			pair := notFound(Get[any](cl, "/todos/1")).Execute(context.Background()).(Pair[any])
			assert.Nil(t, pair.Data)
			check(t, pair.Err)
		})
		t.Run("result", func(t *testing.T) {
			cl := newClient(t, 404, `{"message":"not found"}`)
			check(t, notFound(Get[any](cl, "/todos/1")).Result(context.Background()).Error())
		})
		t.Run("throw", func(t *testing.T) {
			cl := newClient(t, 404, `{"message":"not found"}`)
			defer func() {
				err, ok := recover().(error)
				require.True(t, ok)
				check(t, err)
			}()
			notFound(Get[any](cl, "/todos/1")).Must(context.Background())
			t.Fatal("Must did not panic")
		})
	})
	t.Run("success", func(t *testing.T) {
		cl := newClient(t, 200, `[1,2]`)
		pair := Get[[]int](cl, "/ids").Execute(context.Background()).(Pair[[]int])
		require.NoError(t, pair.Err)
		assert.Equal(t, []int{1, 2}, pair.Data.Data)

		cl = newClient(t, 200, `[3]`)
		s := Get[[]int](cl, "/ids").Throwable().Execute(context.Background()).(*Success[[]int])
		assert.Equal(t, []int{3}, s.Data)
	})
}

func TestShortcuts(t *testing.T) {
	mockDoer := newMockHTTPDoer(t)
	for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD"} {
		method := method
		mockDoer.On("Do", mock.MatchedBy(func(req *http.Request) bool {
			return req.Method == method
		})).Return(newResponse(200, ""), nil).Once()
	}
	cl := &Client{BaseURL: "http://example.com", HTTPDoer: mockDoer}
	ctx := context.Background()

	_, err := Get[any](cl, "/").Do(ctx)
	assert.NoError(t, err)
	_, err = Post[any](cl, "/").Do(ctx)
	assert.NoError(t, err)
	_, err = Put[any](cl, "/").Do(ctx)
	assert.NoError(t, err)
	_, err = Patch[any](cl, "/").Do(ctx)
	assert.NoError(t, err)
	_, err = Delete[any](cl, "/").Do(ctx)
	assert.NoError(t, err)
	s, err := Head(cl, "/").Do(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "", s.Data)

	mockDoer.AssertExpectations(t)
}
