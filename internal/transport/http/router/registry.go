package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// APIModule / AdminModule 模块实现其中一个或两个接口即可被挂载
type APIModule interface{ MountAPI(*gin.RouterGroup) }
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂），默认 100
type prioritizer interface{ Priority() int }

var (
	mu        sync.RWMutex
	apiMods   []APIModule
	adminMods []AdminModule
)

// Register 统一注册入口，按类型断言分发
func Register(mods ...any) {
	mu.Lock()
	defer mu.Unlock()
	for _, mod := range mods {
		if m, ok := mod.(APIModule); ok {
			apiMods = append(apiMods, m)
		}
		if m, ok := mod.(AdminModule); ok {
			adminMods = append(adminMods, m)
		}
	}
}

// MountAllAPI 在 /api/v1 上挂载所有已注册的 API 模块
func MountAllAPI(api *gin.RouterGroup) {
	mu.RLock()
	mods := sorted(apiMods)
	mu.RUnlock()
	for _, m := range mods {
		m.MountAPI(api)
	}
}

// MountAllAdmin 在 /admin/v1 上挂载所有已注册的 Admin 模块
func MountAllAdmin(admin *gin.RouterGroup) {
	mu.RLock()
	mods := sorted(adminMods)
	mu.RUnlock()
	for _, m := range mods {
		m.MountAdmin(admin)
	}
}

func sorted[T any](in []T) []T {
	out := append([]T(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return priorityOf(out[i]) < priorityOf(out[j])
	})
	return out
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
