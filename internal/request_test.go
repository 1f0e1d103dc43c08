package internal_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trueweb/internal"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func TestNewRequest_Basics(t *testing.T) {
	t.Parallel()

	t.Run("method is upper-cased", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("get", "/", nil)
		require.Equal(t, http.MethodGet, internal.NewRequest(r).Method)
	})

	t.Run("unknown methods pass through", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("purge", "/cache", nil)
		require.Equal(t, "PURGE", internal.NewRequest(r).Method)
	})

	t.Run("path drops the query string", func(t *testing.T) {
		t.Parallel()
		req := internal.NewRequest(httptest.NewRequest(http.MethodGet, "/search?q=go&page=2", nil))
		require.Equal(t, "/search", req.Path)
		require.Equal(t, "/search?q=go&page=2", req.URI)
	})

	t.Run("path neutralises parent segments", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RequestURI = "/static/../../etc/passwd"
		require.Equal(t, "/static///etc/passwd", internal.NewRequest(r).Path)
	})

	t.Run("path keeps escapes", func(t *testing.T) {
		t.Parallel()
		req := internal.NewRequest(httptest.NewRequest(http.MethodGet, "/tags/go%20lang", nil))
		require.Equal(t, "/tags/go%20lang", req.Path)
	})

	t.Run("content type is the primary media type", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
		r.Header.Set("Content-Type", "Application/JSON; charset=utf-8")
		require.Equal(t, "application/json", internal.NewRequest(r).ContentType)
	})

	t.Run("all containers exist on a GET", func(t *testing.T) {
		t.Parallel()
		req := internal.NewRequest(httptest.NewRequest(http.MethodGet, "/?a=1", nil))

		for _, d := range []*internal.Data{req.Post, req.Put, req.Patch, req.Delete} {
			require.NotNil(t, d)
			require.Zero(t, d.Len())
		}
		require.Nil(t, req.Route)
		require.Empty(t, req.Files)

		v, ok := req.Get.String("a")
		require.True(t, ok)
		require.Equal(t, "1", v)

		v, ok = req.All.String("a")
		require.True(t, ok)
		require.Equal(t, "1", v)
	})

	t.Run("GET body is ignored", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", strings.NewReader(`{"x":1}`))
		r.Header.Set("Content-Type", "application/json")
		req := internal.NewRequest(r)
		require.False(t, req.All.Has("x"))
	})

	t.Run("array query keys become lists", func(t *testing.T) {
		t.Parallel()
		req := internal.NewRequest(httptest.NewRequest(http.MethodGet, "/?tag[]=a&tag[]=b&id=1&id=2&one[]=x", nil))

		tags, ok := req.Get.Strings("tag")
		require.True(t, ok)
		require.Equal(t, []string{"a", "b"}, tags)

		ids, ok := req.Get.Strings("id")
		require.True(t, ok)
		require.Equal(t, []string{"1", "2"}, ids)

		one, ok := req.Get.Strings("one")
		require.True(t, ok)
		require.Equal(t, []string{"x"}, one)
	})
}

func TestNewRequest_JSON(t *testing.T) {
	t.Parallel()

	t.Run("POST fills post only", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"x":1}`))
		r.Header.Set("Content-Type", "application/json")
		req := internal.NewRequest(r)

		x, ok := req.Post.AsInt("x")
		require.True(t, ok)
		require.Equal(t, 1, x)
		require.Zero(t, req.Put.Len())
		require.Same(t, req.Post, req.Body())
	})

	t.Run("PUT fills put and leaves post empty", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"x":1}`))
		r.Header.Set("Content-Type", "application/json")
		req := internal.NewRequest(r)

		x, ok := req.Put.AsInt("x")
		require.True(t, ok)
		require.Equal(t, 1, x)
		require.Zero(t, req.Post.Len())
	})

	t.Run("numbers stay exact", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"id":9007199254740993}`))
		r.Header.Set("Content-Type", "application/ld+json")
		req := internal.NewRequest(r)

		v, ok := req.Patch.Value("id")
		require.True(t, ok)
		require.Equal(t, json.Number("9007199254740993"), v)
	})

	t.Run("body wins over query in all", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/?name=query&page=3", strings.NewReader(`{"name":"body"}`))
		r.Header.Set("Content-Type", "application/json")
		req := internal.NewRequest(r)

		name, _ := req.All.String("name")
		page, _ := req.All.AsInt("page")
		require.Equal(t, "body", name)
		require.Equal(t, 3, page)
	})

	t.Run("nested objects", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"user":{"email":"a@example.com"}}`))
		r.Header.Set("Content-Type", "application/activity+json")
		req := internal.NewRequest(r)

		user, ok := req.Post.Data("user")
		require.True(t, ok)
		email, ok := user.AsEmail("email")
		require.True(t, ok)
		require.Equal(t, "a@example.com", email)
	})

	t.Run("malformed body degrades to empty", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/?keep=1", strings.NewReader(`{"x":`))
		r.Header.Set("Content-Type", "application/json")
		req := internal.NewRequest(r)

		require.Zero(t, req.Post.Len())
		require.True(t, req.All.Has("keep"))
	})

	t.Run("non-object body degrades to empty", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`[1,2,3]`))
		r.Header.Set("Content-Type", "application/json")
		require.Zero(t, internal.NewRequest(r).Post.Len())
	})
}

func TestNewRequest_Form(t *testing.T) {
	t.Parallel()

	t.Run("urlencoded", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("name=Ann&roles[]=admin&roles[]=dev"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req := internal.NewRequest(r)

		name, ok := req.Post.String("name")
		require.True(t, ok)
		require.Equal(t, "Ann", name)

		roles, ok := req.Post.Strings("roles")
		require.True(t, ok)
		require.Equal(t, []string{"admin", "dev"}, roles)
	})

	t.Run("text/plain is parsed as pairs", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodDelete, "/", strings.NewReader("id=5"))
		r.Header.Set("Content-Type", "text/plain")
		req := internal.NewRequest(r)

		id, ok := req.Delete.AsInt("id")
		require.True(t, ok)
		require.Equal(t, 5, id)
	})

	t.Run("bare and bracketed keys merge", func(t *testing.T) {
		t.Parallel()
		for range 20 {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("tags[]=b&tags=a&tags[]=c"))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req := internal.NewRequest(r)

			tags, ok := req.Post.Strings("tags")
			require.True(t, ok)
			require.Equal(t, []string{"a", "b", "c"}, tags)
		}
	})
}

func TestNewRequest_XML(t *testing.T) {
	t.Parallel()

	t.Run("nested elements and attributes", func(t *testing.T) {
		t.Parallel()
		body := `<?xml version="1.0"?>
<order id="7">
  <customer>Ann</customer>
  <item>a</item>
  <item>b</item>
  <address><city>Oslo</city></address>
</order>`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/xml")
		req := internal.NewRequest(r)

		id, ok := req.Post.AsInt("@id")
		require.True(t, ok)
		require.Equal(t, 7, id)

		customer, _ := req.Post.String("customer")
		require.Equal(t, "Ann", customer)

		items, ok := req.Post.Strings("item")
		require.True(t, ok)
		require.Equal(t, []string{"a", "b"}, items)

		addr, ok := req.Post.Data("address")
		require.True(t, ok)
		city, _ := addr.String("city")
		require.Equal(t, "Oslo", city)
	})

	t.Run("malformed body degrades to empty", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("<order><item>"))
		r.Header.Set("Content-Type", "text/xml")
		require.Zero(t, internal.NewRequest(r).Post.Len())
	})
}

func TestNewRequest_RawFallback(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("just bytes"))
	r.Header.Set("Content-Type", "application/x-custom")
	req := internal.NewRequest(r)

	raw, ok := req.Post.Value("raw")
	require.True(t, ok)
	require.Equal(t, "just bytes", raw)
}

func TestNewRequest_Files(t *testing.T) {
	t.Parallel()

	newMultipart := func(t *testing.T, build func(mw *multipart.Writer)) *http.Request {
		t.Helper()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		build(mw)
		require.NoError(t, mw.Close())

		r := httptest.NewRequest(http.MethodPost, "/upload", &buf)
		r.Header.Set("Content-Type", mw.FormDataContentType())
		return r
	}

	addFile := func(t *testing.T, mw *multipart.Writer, field, name string, content []byte) {
		t.Helper()
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}

	t.Run("array field keeps order", func(t *testing.T) {
		t.Parallel()
		r := newMultipart(t, func(mw *multipart.Writer) {
			addFile(t, mw, "files[]", "Photo.PNG", pngHeader)
			addFile(t, mw, "files[]", "notes.txt", []byte("hello world"))
		})
		req := internal.NewRequest(r)

		field, ok := req.Files["files"]
		require.True(t, ok)
		require.True(t, field.Multiple)
		require.Len(t, field.Files, 2)

		first, second := field.Files[0], field.Files[1]
		require.True(t, first.Uploaded)
		require.Equal(t, "Photo.PNG", first.Name)
		require.Equal(t, "png", first.Ext)
		require.Equal(t, "image/png", first.MIME)

		require.True(t, second.Uploaded)
		require.Equal(t, "txt", second.Ext)
		require.Equal(t, "text/plain", second.MIME)
	})

	t.Run("mime comes from content, not the name", func(t *testing.T) {
		t.Parallel()
		r := newMultipart(t, func(mw *multipart.Writer) {
			addFile(t, mw, "avatar", "avatar.jpg", pngHeader)
		})
		req := internal.NewRequest(r)

		f, ok := req.File("avatar")
		require.True(t, ok)
		require.False(t, req.Files["avatar"].Multiple)
		require.Equal(t, "jpg", f.Ext)
		require.Equal(t, "image/png", f.MIME)

		rc, err := f.Open()
		require.NoError(t, err)
		require.NoError(t, rc.Close())
	})

	t.Run("form values sit next to files", func(t *testing.T) {
		t.Parallel()
		r := newMultipart(t, func(mw *multipart.Writer) {
			require.NoError(t, mw.WriteField("title", "Holiday"))
			addFile(t, mw, "photo", "a.png", pngHeader)
		})
		req := internal.NewRequest(r)

		title, ok := req.Post.String("title")
		require.True(t, ok)
		require.Equal(t, "Holiday", title)
	})

	t.Run("missing field", func(t *testing.T) {
		t.Parallel()
		req := internal.NewRequest(httptest.NewRequest(http.MethodGet, "/", nil))
		_, ok := req.File("nope")
		require.False(t, ok)
	})
}

func TestRequest_Bind(t *testing.T) {
	t.Parallel()

	type signup struct {
		Email string `json:"email" validate:"required,email"`
		Name  string `json:"name" validate:"required,min=2"`
		Age   int    `json:"age"`
	}

	t.Run("form values bind onto typed fields", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/?age=30", strings.NewReader("email=ann@example.com&name=Ann"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var dst signup
		require.NoError(t, internal.NewRequest(r).Bind(&dst))
		require.Equal(t, signup{Email: "ann@example.com", Name: "Ann", Age: 30}, dst)
	})

	t.Run("quoted scalars bind onto typed fields", func(t *testing.T) {
		t.Parallel()
		type filter struct {
			Page    int     `json:"page"`
			Price   float64 `json:"price"`
			Active  bool    `json:"active"`
			Code    string  `json:"code"`
			Missing int     `json:"missing"`
		}
		r := httptest.NewRequest(http.MethodPost, "/?page=3&active=true&missing=", strings.NewReader(`{"price":"9.5","code":42}`))
		r.Header.Set("Content-Type", "application/json")

		var dst filter
		require.NoError(t, internal.NewRequest(r).Bind(&dst))
		require.Equal(t, filter{Page: 3, Price: 9.5, Active: true, Code: "42"}, dst)
	})

	t.Run("unparseable scalar fails", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/?age=old", nil)

		var dst struct {
			Age int `json:"age"`
		}
		require.Error(t, internal.NewRequest(r).Bind(&dst))
	})

	t.Run("leniency does not leak into other configs", func(t *testing.T) {
		t.Parallel()
		var dst struct {
			Age int `json:"age"`
		}
		require.Error(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(`{"age":"30"}`), &dst))
	})

	t.Run("validation errors name json fields", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","name":"A"}`))
		r.Header.Set("Content-Type", "application/json")

		var dst signup
		err := internal.NewRequest(r).Bind(&dst)
		require.Error(t, err)
		require.True(t, internal.IsValidationError(err))

		var ve internal.ValidationErrors
		require.ErrorAs(t, err, &ve)
		require.True(t, ve.Has("email"))
		require.True(t, ve.Has("name"))
		require.False(t, ve.Has("age"))
	})
}
