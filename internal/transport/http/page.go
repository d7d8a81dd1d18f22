package http

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Page renders the full feed page.
// GET /
func (h *ChirpHandlers) Page(pollInterval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		fragment, ok := h.renderFeed(c)
		if !ok {
			return
		}

		loggedIn := currentUserID(c) != 0
		page, err := h.renderer.Page(template.HTML(fragment), loggedIn, pollInterval)
		if err != nil {
			h.log.Error().Err(err).Msg("failed to render page")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			return
		}

		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	}
}

// feedScript drives the page: a fixed-interval poll of the feed fragment
// (last response wins), a websocket listener for immediate refresh hints,
// and the compose/edit/delete wiring. Served at /static/feed.js.
const feedScript = `(function () {
  var script = document.currentScript;
  var interval = parseInt(script.dataset.pollInterval, 10) || 5000;

  function refresh() {
    fetch('/api/feed').then(function (res) {
      if (!res.ok) return;
      return res.text();
    }).then(function (html) {
      if (!html) return;
      var feed = document.getElementById('feed');
      if (feed) feed.outerHTML = html;
    }).catch(function () { /* next tick retries */ });
  }

  setInterval(refresh, interval);

  try {
    var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
    var ws = new WebSocket(proto + location.host + '/ws');
    ws.onmessage = refresh;
  } catch (e) { /* polling still covers us */ }

  function post(url, body) {
    var opts = { method: 'POST' };
    if (body !== undefined) {
      opts.headers = { 'Content-Type': 'application/json' };
      opts.body = JSON.stringify(body);
    }
    return fetch(url, opts).then(refresh);
  }

  document.addEventListener('submit', function (e) {
    var form = e.target;
    if (form.id === 'compose') {
      e.preventDefault();
      var body = form.elements.body.value;
      post('/api/chirps', { body: body }).then(function () { form.reset(); });
    } else if (form.classList.contains('edit-form')) {
      e.preventDefault();
      var id = form.dataset.id;
      fetch('/api/chirps/' + id, {
        method: 'PUT',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify({ body: form.elements.body.value })
      }).then(refresh);
    }
  });

  document.addEventListener('click', function (e) {
    var el = e.target;
    if (el.classList.contains('edit')) {
      post('/api/chirps/' + el.dataset.id + '/edit');
    } else if (el.classList.contains('delete')) {
      if (confirm(el.dataset.confirm || 'Delete?')) {
        fetch('/api/chirps/' + el.dataset.id, { method: 'DELETE' }).then(refresh);
      }
    } else if (el.classList.contains('cancel')) {
      post('/api/edit/cancel');
    }
  });
})();
`

// FeedScript serves the client poller.
// GET /static/feed.js
func (h *ChirpHandlers) FeedScript(c *gin.Context) {
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", []byte(feedScript))
}
