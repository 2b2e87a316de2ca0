package monitor

import (
	"os"

	"review-management-api/config"

	"github.com/gin-gonic/gin"
)

func logsToken() string {
	if token := os.Getenv("MONITOR_TOKEN"); token != "" {
		return token
	}
	return "secret-token"
}

// RegisterMonitorPage serves a small status page polling the health and logs
// endpoints.
func RegisterMonitorPage(router *gin.Engine) {
	router.GET("/monitor", func(c *gin.Context) {
		c.Data(200, "text/html; charset=utf-8", []byte(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>Review API Monitor</title>
  <style>
    body { background: #111; color: #ddd; font-family: monospace; padding: 20px; }
    h1 { font-size: 1.4rem; margin-bottom: 12px; }
    #status { margin-bottom: 12px; }
    #logs { background: #000; border: 1px solid #333; padding: 10px; height: 70vh; overflow-y: scroll; white-space: pre-wrap; }
  </style>
</head>
<body>
  <h1>Review Management API</h1>
  <div id="status">Status: checking...</div>
  <pre id="logs">loading...</pre>
  <script>
    const statusElement = document.getElementById('status');
    const logsElement = document.getElementById('logs');

    function fetchStatus() {
      fetch('/api/v1/health')
        .then(res => res.json())
        .then(data => {
          statusElement.textContent = 'Status: ' + (data.status === 'ok' ? 'online' : 'offline');
        })
        .catch(() => { statusElement.textContent = 'Status: offline'; });
    }

    function fetchLogs() {
      fetch('/logs?token=' + new URLSearchParams(location.search).get('token'))
        .then(res => res.text())
        .then(data => {
          logsElement.textContent = data;
          logsElement.scrollTop = logsElement.scrollHeight;
        });
    }

    fetchStatus();
    fetchLogs();
    setInterval(fetchStatus, 5000);
    setInterval(fetchLogs, 5000);
  </script>
</body>
</html>`))
	})
}

// RegisterLogsRoute exposes the backend log file behind a token check.
func RegisterLogsRoute(router *gin.Engine) {
	router.GET("/logs", func(c *gin.Context) {
		if c.Query("token") != logsToken() {
			c.JSON(401, gin.H{"error": "Unauthorized"})
			return
		}
		logData, err := os.ReadFile(config.LogFilePath())
		if err != nil {
			c.JSON(500, gin.H{"error": "Unable to read log"})
			return
		}
		c.Data(200, "text/plain; charset=utf-8", logData)
	})
}
