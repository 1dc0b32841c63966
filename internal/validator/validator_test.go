package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/student-roster/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	Setup()
}

func TestBind_TranslatesMarksLimit(t *testing.T) {
	body := `{"name":"Jane","age":"20","marks":["1","2","3","4","5","6"]}`
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req model.StudentDraftRequest
	fields := Bind(c, &req)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "marks")
	assert.Contains(t, fields["marks"], "5")
}

func TestBind_MalformedJSON(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req model.StudentDraftRequest
	fields := Bind(c, &req)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "detail")
}

func TestBindQuery_Division(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?division=Distinction", nil)

	var q model.ListStudentsQuery
	fields := BindQuery(c, &q)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "division")
}

func TestBindQuery_OK(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?name=jan&division=First", nil)

	var q model.ListStudentsQuery
	require.Nil(t, BindQuery(c, &q))
	assert.Equal(t, "jan", q.Name)
	assert.Equal(t, model.DivisionFirst, q.Division)
}
