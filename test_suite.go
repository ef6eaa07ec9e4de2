package ginblog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
)

type DBSeeder interface {
	Seed(table string, data *godog.Table) error
}

// TestSuite drives a server-rendered app through godog scenarios. Redirects
// are not followed so scenarios can assert on them, and cookies set by one
// step are sent by the next.
type TestSuite struct {
	T         *testing.T
	Router    http.Handler
	DB        *DB
	Resp      *http.Response
	RespBody  []byte
	Storage   map[string]string
	DbSeeders map[string]DBSeeder
	// Reset, when set, runs before every scenario to give it a clean store.
	Reset   func() error
	cookies map[string]*http.Cookie
}

type TestLogger struct {
	T *testing.T
}

func (ts *TestSuite) RegisterDBSeeder(table string, seeder DBSeeder) {
	if ts.DbSeeders == nil {
		ts.DbSeeders = make(map[string]DBSeeder)
	}
	ts.DbSeeders[table] = seeder
}

func (ts *TestSuite) InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		ts.Storage = make(map[string]string)
	})
}

func (ts *TestSuite) InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.BeforeScenario(func(sc *godog.Scenario) {
		ts.Resp = nil
		ts.RespBody = nil
		ts.cookies = make(map[string]*http.Cookie)
		if ts.Reset != nil {
			if err := ts.Reset(); err != nil {
				ts.T.Errorf("reset store before %q: %v", sc.Name, err)
			}
		}
	})

	ctx.Step(`^table "([^"]*)" has the following rows$`, ts.tableHasTheFollowingRows)
	ctx.Step(`^I register as "([^"]*)" named "([^"]*)" with password "([^"]*)"$`, ts.iRegisterAs)
	ctx.Step(`^I sign in as "([^"]*)" with password "([^"]*)"$`, ts.iSignInAs)
	ctx.Step(`^I am not signed in$`, ts.iAmNotSignedIn)
	ctx.Step(`^I send a GET request to "([^"]*)"$`, ts.iSendAGETRequestTo)
	ctx.Step(`^I send a POST request to "([^"]*)"$`, ts.iSendAPOSTRequestTo)
	ctx.Step(`^I submit the form to "([^"]*)" with$`, ts.iSubmitTheFormToWith)
	ctx.Step(`^the response status should be (\d+)$`, ts.theResponseStatusShouldBe)
	ctx.Step(`^I should be redirected to "([^"]*)"$`, ts.iShouldBeRedirectedTo)
	ctx.Step(`^the response should contain "([^"]*)"$`, ts.theResponseShouldContain)
	ctx.Step(`^the response should not contain "([^"]*)"$`, ts.theResponseShouldNotContain)
	ctx.Step(`^table "([^"]*)" should have (\d+) rows?$`, ts.tableShouldHaveRows)
}

func (ts *TestSuite) tableHasTheFollowingRows(table string, data *godog.Table) error {
	seeder, ok := ts.DbSeeders[table]
	if !ok {
		return fmt.Errorf("no seeder registered for table %s", table)
	}
	return seeder.Seed(table, data)
}

func (ts *TestSuite) iRegisterAs(email, name, password string) error {
	return ts.postForm("/register", url.Values{
		"email":    {email},
		"name":     {name},
		"password": {password},
	})
}

func (ts *TestSuite) iSignInAs(email, password string) error {
	return ts.postForm("/login", url.Values{
		"email":    {email},
		"password": {password},
	})
}

func (ts *TestSuite) iAmNotSignedIn() error {
	ts.cookies = make(map[string]*http.Cookie)
	return nil
}

func (ts *TestSuite) iSendAGETRequestTo(path string) error {
	req, err := http.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return ts.do(req)
}

func (ts *TestSuite) iSendAPOSTRequestTo(path string) error {
	return ts.postForm(path, url.Values{})
}

func (ts *TestSuite) iSubmitTheFormToWith(path string, body *godog.Table) error {
	values, err := ts.parseDataTableToForm(body)
	if err != nil {
		return err
	}
	return ts.postForm(path, values)
}

func (ts *TestSuite) postForm(path string, values url.Values) error {
	req, err := http.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ts.do(req)
}

func (ts *TestSuite) do(req *http.Request) error {
	for _, cookie := range ts.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	ts.Resp = w.Result()
	defer ts.Resp.Body.Close()

	for _, cookie := range ts.Resp.Cookies() {
		if cookie.MaxAge < 0 || cookie.Value == "" {
			delete(ts.cookies, cookie.Name)
			continue
		}
		ts.cookies[cookie.Name] = cookie
	}

	var err error
	ts.RespBody, err = io.ReadAll(ts.Resp.Body)
	return err
}

func (ts *TestSuite) theResponseStatusShouldBe(status int) error {
	if ts.Resp.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d", status, ts.Resp.StatusCode)
	}
	return nil
}

func (ts *TestSuite) iShouldBeRedirectedTo(location string) error {
	if ts.Resp.StatusCode < 300 || ts.Resp.StatusCode >= 400 {
		return fmt.Errorf("expected a redirect, got status %d", ts.Resp.StatusCode)
	}
	if got := ts.Resp.Header.Get("Location"); got != location {
		return fmt.Errorf("expected redirect to %s, got %s", location, got)
	}
	return nil
}

func (ts *TestSuite) theResponseShouldContain(text string) error {
	if !strings.Contains(string(ts.RespBody), text) {
		return fmt.Errorf("response does not contain %q", text)
	}
	return nil
}

func (ts *TestSuite) theResponseShouldNotContain(text string) error {
	if strings.Contains(string(ts.RespBody), text) {
		return fmt.Errorf("response unexpectedly contains %q", text)
	}
	return nil
}

func (ts *TestSuite) tableShouldHaveRows(table string, count int) error {
	var got int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if err := ts.DB.QueryRowContext(context.Background(), query).Scan(&got); err != nil {
		return err
	}
	if got != count {
		return fmt.Errorf("expected %d rows in %s, got %d", count, table, got)
	}
	return nil
}

func (ts *TestSuite) parseDataTableToForm(body *godog.Table) (url.Values, error) {
	if len(body.Rows) < 2 {
		return nil, fmt.Errorf("table must have at least two rows")
	}
	headers := body.Rows[0].Cells
	values := url.Values{}
	row := body.Rows[1]
	for j, cell := range row.Cells {
		values.Set(headers[j].Value, cell.Value)
	}
	return values, nil
}

// SQLSeeder inserts godog table rows verbatim. The header row names the
// columns; an empty cell is stored as NULL.
type SQLSeeder struct {
	DB *DB
}

func NewSQLSeeder(db *DB) *SQLSeeder {
	return &SQLSeeder{DB: db}
}

func (s *SQLSeeder) Seed(table string, data *godog.Table) error {
	if len(data.Rows) < 1 {
		return fmt.Errorf("table must have a header row")
	}
	headers := data.Rows[0].Cells
	columns := make([]string, len(headers))
	placeholders := make([]string, len(headers))
	for i, cell := range headers {
		columns[i] = cell.Value
		placeholders[i] = "?"
	}
	query := s.DB.Dialect.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ","), strings.Join(placeholders, ",")))

	for i := 1; i < len(data.Rows); i++ {
		args := make([]interface{}, len(columns))
		for j, cell := range data.Rows[i].Cells {
			if cell.Value == "" {
				args[j] = nil
				continue
			}
			args[j] = cell.Value
		}
		if _, err := s.DB.ExecContext(context.Background(), query, args...); err != nil {
			return fmt.Errorf("seed %s row %d: %w", table, i, err)
		}
	}
	return nil
}

func (tl *TestLogger) Write(p []byte) (n int, err error) {
	if tl.T != nil {
		tl.T.Logf("%s", p)
	}
	return len(p), nil
}

func TestFeatures(t *testing.T, suite *TestSuite) {
	suite.T = t
	opts := godog.Options{
		Format:    "pretty",
		Output:    colors.Colored(&TestLogger{T: t}),
		Paths:     []string{"features"},
		Strict:    true,
		Randomize: 0,
	}

	status := godog.TestSuite{
		Name:                 "ginblog",
		TestSuiteInitializer: suite.InitializeTestSuite,
		ScenarioInitializer:  suite.InitializeScenario,
		Options:              &opts,
	}.Run()
	if status != 0 {
		t.Fatalf("feature scenarios failed with status %d", status)
	}
}
