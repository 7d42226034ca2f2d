package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"sync"
	"time"

	"github.com/kirsrus/hosttemp/model"

	"github.com/gorilla/websocket"
	"github.com/juju/errors"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	waitRestartStartServer = 10 * time.Second
	shutdownTimeout        = 5 * time.Second
	writeTimeout           = 5 * time.Second
	webPort                = 9101
	cacheExpiration        = 3 * time.Minute // Время жизни последнего цикла в кэше
	cacheCleanupInterval   = time.Minute     // Интервал очистки устаревших записей
	lastCycleKey           = "cycle"
)

// ConfigWeb конфигурация структуры Web
type ConfigWeb struct {
	Log *logrus.Logger

	WebPort         uint
	CacheExpiration time.Duration
}

// Web приёмник метрик с доступом по HTTP: последний цикл в JSON, метрики Prometheus
// и поток циклов по websocket. Инициализируется через NewWeb
type Web struct {
	ctx      context.Context
	log      *logrus.Entry
	e        *echo.Echo
	cache    *cache.Cache
	registry *prometheus.Registry
	upgrader websocket.Upgrader

	mu          sync.Mutex
	subscribers map[*websocket.Conn]struct{}

	webPort uint
}

// NewWeb конструктор структуры Web. Сервер не запускается, для запуска см. Serve
func NewWeb(ctx context.Context, config *ConfigWeb) (*Web, error) {
	if config == nil {
		return nil, errors.New("не установлена конфигурация")
	}
	if config.Log == nil {
		config.Log = logrus.New()
		config.Log.Out = ioutil.Discard
	}
	expiration := cacheExpiration
	if config.CacheExpiration != 0 {
		expiration = config.CacheExpiration
	}

	web := Web{
		ctx: ctx,
		log: config.Log.WithFields(map[string]interface{}{
			"module": "web",
			"scope":  "service",
		}),
		e:        echo.New(),
		cache:    cache.New(expiration, cacheCleanupInterval),
		registry: prometheus.NewRegistry(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		subscribers: make(map[*websocket.Conn]struct{}),
		webPort:     webPort,
	}
	if config.WebPort != 0 {
		web.webPort = config.WebPort
	}

	if err := web.registry.Register(&collector{web: &web}); err != nil {
		return nil, errors.Annotate(err, "ошибка регистрации коллектора метрик")
	}

	web.e.HideBanner = true
	web.e.HidePort = true
	web.e.Use(middleware.Recover())
	web.e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	web.e.GET("/api/observations", web.observations)
	web.e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(web.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})))
	web.e.GET("/ws", web.websocket)

	return &web, nil
}

// Handler обработчик всех точек входа сервера
func (m *Web) Handler() http.Handler {
	return m.e
}

// Serve запускает HTTP-сервер и перезапускает его при неожиданном завершении.
// Возвращается только после отмены контекста
func (m *Web) Serve() {
	go func() {
		<-m.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := m.e.Shutdown(ctx); err != nil {
			m.log.Warnf("ошибка остановки HTTP-сервера: %v", err)
		}
		m.closeSubscribers()
	}()

	for {
		m.log.Infof("старт HTTP-сервера на порту :%d", m.webPort)
		err := m.e.Start(fmt.Sprintf(":%d", m.webPort))
		if m.ctx.Err() != nil {
			return
		}
		m.log.Errorf("сервер неожиданно завершил работу: %v", err)
		select {
		case <-m.ctx.Done():
			return
		case <-time.After(waitRestartStartServer):
		}
	}
}

// Report сохраняет цикл как последний и рассылает его подписчикам websocket
func (m *Web) Report(cycle model.Cycle) error {
	m.cache.SetDefault(lastCycleKey, cycle)

	data, err := json.Marshal(cycle)
	if err != nil {
		return errors.Trace(err)
	}
	m.broadcast(data)
	return nil
}

// Последний не устаревший цикл
func (m *Web) lastCycle() (model.Cycle, bool) {
	v, ok := m.cache.Get(lastCycleKey)
	if !ok {
		return model.Cycle{}, false
	}
	cycle, ok := v.(model.Cycle)
	return cycle, ok
}

func (m *Web) observations(c echo.Context) error {
	cycle, ok := m.lastCycle()
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "нет актуальных данных"})
	}
	return c.JSON(http.StatusOK, cycle)
}

func (m *Web) websocket(c echo.Context) error {
	conn, err := m.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		m.log.Warnf("ошибка подключения по websocket: %v", err)
		return nil
	}
	m.mu.Lock()
	m.subscribers[conn] = struct{}{}
	m.mu.Unlock()
	m.log.Debugf("подключен websocket-клиент %s", conn.RemoteAddr())

	// Входящие сообщения не ожидаются, чтение нужно только для обнаружения отключения
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	m.unsubscribe(conn)
	return nil
}

func (m *Web) broadcast(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.subscribers {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			m.log.Debugf("websocket-клиент %s отключен: %v", conn.RemoteAddr(), err)
			_ = conn.Close()
			delete(m.subscribers, conn)
		}
	}
}

func (m *Web) unsubscribe(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subscribers[conn]; ok {
		_ = conn.Close()
		delete(m.subscribers, conn)
	}
}

func (m *Web) closeSubscribers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.subscribers {
		_ = conn.Close()
		delete(m.subscribers, conn)
	}
}

func (m *Web) subscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers)
}
