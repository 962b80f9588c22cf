package strictreq_test

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	strictreq "github.com/SimonDaKappa/go-strictreq"
)

// Example struct that implements Validatable
type User struct {
	ID    uuid.UUID `parse:"json:'id' query:'user_id,required'"`
	Name  string    `parse:"query:'name,omitempty' json:'name,required' length:'32'"`
	Email string    `parse:"json:'email'"`
	Age   int       `parse:"json:'age' min:'0' max:'150'"`
}

func (u *User) Validate() error {
	if u.Email != "" && !strings.Contains(u.Email, "@") {
		return errors.New("email must contain @")
	}
	return nil
}

func ExampleExtract() {
	src := strictreq.Source{"page": " 3 ", "q": "go"}

	page, _ := strictreq.Extract(src, "page", strictreq.Integer, true, strictreq.Rules{Min: strictreq.IntLimit(1)})
	fmt.Println(page.Int())

	_, err := strictreq.Extract(src, "limit", strictreq.Integer, true, strictreq.Rules{})
	fmt.Println(err)

	sort, _ := strictreq.Extract(src, "sort", strictreq.String, false, strictreq.Rules{Default: "name"})
	fmt.Println(sort.String(), sort.IsDefault())
	// Output:
	// 3
	// missing parameter: "limit"
	// name true
}

func ExampleRequest_FromJSONObject() {
	body := []byte(`{"user":{"name":"Bob","age":"41"}}`)
	req := strictreq.NewRequest(nil, nil, strictreq.StaticBody(body))

	name, _ := req.FromJSONObject("user", "name", strictreq.String, true, strictreq.Rules{})
	fmt.Println(name.String())

	_, err := req.FromJSONObject("user", "age", strictreq.Integer, true, strictreq.Rules{Max: strictreq.IntLimit(40)})
	kind, _ := strictreq.KindOf(err)
	field, _ := strictreq.FieldOf(err)
	fmt.Println(kind, field)
	// Output:
	// Bob
	// out_of_range age
}

func ExampleFilterIntegers() {
	scores := map[string]any{" 01": "10", "2": 7.9}

	filtered, err := strictreq.FilterIntegers(scores, true, 0, 100)
	fmt.Println(filtered, err)

	_, err = strictreq.FilterIntegers(map[string]any{"a": "10", "b": "20"}, false, 0, 15)
	fmt.Println(err)
	// Output:
	// map[1:10 2:7] <nil>
	// parameter out of range: "b"
}

func ExampleBind() {
	type Paging struct {
		Page    int64 `parse:"query:'page' json:'paging.page' default:'1' min:'1'"`
		PerPage int64 `parse:"query:'per_page' default:'20' min:'1' max:'100'"`
	}

	req := strictreq.NewRequest(strictreq.Source{"per_page": "50"}, nil, nil)

	var p Paging
	if err := strictreq.Bind(req, &p); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%+v\n", p)
	// Output:
	// {Page:1 PerPage:50}
}

func TestHTTPRequestParsing(t *testing.T) {
	jsonBody := `{"id": "123e4567-e89b-12d3-a456-426614174000", "name": "John Doe", "email": "john@example.com", "age": 30}`
	r, err := http.NewRequest("POST", "http://example.com/users?user_id=456e7890-e89b-12d3-a456-426614174001&name=QueryName", bytes.NewBufferString(jsonBody))
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	r.Header.Set("Content-Type", "application/json")

	req, err := strictreq.NewHTTPRequest(r, nil)
	if err != nil {
		t.Fatalf("Failed to wrap request: %v", err)
	}

	var user User
	if err := strictreq.Bind(req, &user); err != nil {
		t.Fatalf("Failed to bind: %v", err)
	}

	// ID comes from the body (first binding)
	if user.ID.String() != "123e4567-e89b-12d3-a456-426614174000" {
		t.Errorf("Expected ID from body, got %s", user.ID)
	}
	// Name comes from the query (first binding)
	if user.Name != "QueryName" {
		t.Errorf("Expected Name 'QueryName', got %s", user.Name)
	}
	if user.Email != "john@example.com" {
		t.Errorf("Expected Email 'john@example.com', got %s", user.Email)
	}
	if user.Age != 30 {
		t.Errorf("Expected Age 30, got %d", user.Age)
	}
}

func TestHTTPRequestParsingFallback(t *testing.T) {
	r, err := http.NewRequest("GET", "http://example.com/users?user_id=456e7890-e89b-12d3-a456-426614174001&name=", nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	req, err := strictreq.NewHTTPRequest(r, nil)
	if err != nil {
		t.Fatalf("Failed to wrap request: %v", err)
	}

	// The empty query name is skipped and the body has no name either.
	var user User
	err = strictreq.Bind(req, &user)
	if kind, _ := strictreq.KindOf(err); kind != strictreq.MissingParameter {
		t.Fatalf("Expected missing parameter, got %v", err)
	}
	if field, _ := strictreq.FieldOf(err); field != "name" {
		t.Errorf("Expected field 'name', got %q", field)
	}
	if user != (User{}) {
		t.Errorf("Expected zeroed user, got %+v", user)
	}
}

func TestHTTPRequestValidation(t *testing.T) {
	body := `{"id": "123e4567-e89b-12d3-a456-426614174000", "name": "Jane", "email": "jane.example.com"}`
	r, _ := http.NewRequest("POST", "http://example.com/users", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	req, err := strictreq.NewHTTPRequest(r, nil)
	if err != nil {
		t.Fatalf("Failed to wrap request: %v", err)
	}

	var user User
	err = strictreq.Bind(req, &user)
	var verr *strictreq.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected validation error, got %v", err)
	}
}

func BenchmarkBind(b *testing.B) {
	body := []byte(`{"id": "123e4567-e89b-12d3-a456-426614174000", "name": "John Doe", "email": "john@example.com", "age": 30}`)
	binder := strictreq.NewBinder(strictreq.BinderOpts{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := strictreq.NewRequest(nil, nil, strictreq.StaticBody(body))
		var user User
		if err := binder.Bind(req, &user); err != nil {
			b.Fatal(err)
		}
	}
}
