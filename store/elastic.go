package store

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/pkg/errors"

	"todo-service/structs"
)

// Config describes the external index holding todo documents. App and
// DocType together name the index; Credentials is "user:password".
type Config struct {
	URL         string
	App         string
	Credentials string
	DocType     string
	Timeout     time.Duration

	// Transport overrides the HTTP transport, for tests.
	Transport http.RoundTripper
}

// Elastic is the Store implementation backed by an
// Elasticsearch-compatible service.
type Elastic struct {
	client  *elasticsearch.Client
	index   string
	timeout time.Duration
}

func NewElastic(cfg Config) (*Elastic, error) {
	user, pass, _ := strings.Cut(cfg.Credentials, ":")
	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  user,
		Password:  pass,
	}
	if cfg.Transport != nil {
		esCfg.Transport = cfg.Transport
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, errors.Wrap(err, "create search index client")
	}

	return &Elastic{
		client:  client,
		index:   indexName(cfg.App, cfg.DocType),
		timeout: cfg.Timeout,
	}, nil
}

// indexName folds the app namespace and document type into one index
// name; mapping types no longer exist server-side.
func indexName(app, docType string) string {
	switch {
	case app == "":
		return docType
	case docType == "":
		return app
	}
	return app + "-" + docType
}

func (e *Elastic) Index(ctx context.Context, id string, todo structs.Todo) error {
	body, err := json.Marshal(todo)
	if err != nil {
		return errors.Wrap(err, "encode todo")
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	req := esapi.IndexRequest{Index: e.index, DocumentID: id, Body: bytes.NewReader(body)}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return e.outbound(err, "index todo")
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.Errorf("index todo: %s", res.String())
	}
	return nil
}

func (e *Elastic) Get(ctx context.Context, id string) (structs.Todo, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	req := esapi.GetRequest{Index: e.index, DocumentID: id}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return structs.Todo{}, e.outbound(err, "get todo")
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return structs.Todo{}, ErrNotFound
	}
	if res.IsError() {
		return structs.Todo{}, errors.Errorf("get todo: %s", res.String())
	}

	var doc struct {
		Source structs.Todo `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return structs.Todo{}, errors.Wrap(err, "decode todo document")
	}
	return doc.Source, nil
}

func (e *Elastic) Update(ctx context.Context, id string, patch Patch) error {
	body, err := json.Marshal(struct {
		Doc Patch `json:"doc"`
	}{Doc: patch})
	if err != nil {
		return errors.Wrap(err, "encode patch")
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	req := esapi.UpdateRequest{Index: e.index, DocumentID: id, Body: bytes.NewReader(body)}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return e.outbound(err, "update todo")
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if res.IsError() {
		return errors.Errorf("update todo: %s", res.String())
	}
	return nil
}

func (e *Elastic) Delete(ctx context.Context, id string) error {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	req := esapi.DeleteRequest{Index: e.index, DocumentID: id}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return e.outbound(err, "delete todo")
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if res.IsError() {
		return errors.Errorf("delete todo: %s", res.String())
	}
	return nil
}

func (e *Elastic) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.timeout)
}

func (e *Elastic) outbound(err error, op string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(ErrTimeout, op)
	}
	return errors.Wrap(err, op)
}
