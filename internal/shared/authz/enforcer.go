// Package authz — авторизация по {role, resource, action} через casbin.
// Политики статичны и вшиты в бинарь: роль либо имеет право на операцию,
// либо нет. Проверки владения ресурсом (свой ли это ride) остаются в сервисах.
package authz

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
)

//go:embed model.conf
var modelText string

//go:embed policy.csv
var policyText string

// Enforcer отвечает на вопрос "может ли роль выполнить action над resource"
type Enforcer struct {
	e *casbin.Enforcer
}

// New собирает enforcer из встроенной модели и политики
func New() (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}

	if err := loadPolicyLines(e, policyText); err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	return &Enforcer{e: e}, nil
}

// Allowed проверяет право роли на действие
func (en *Enforcer) Allowed(role, resource, action string) bool {
	ok, err := en.e.Enforce(role, resource, action)
	if err != nil {
		return false
	}
	return ok
}

func loadPolicyLines(e *casbin.Enforcer, text string) error {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := persist.LoadPolicyLine(line, e.GetModel()); err != nil {
			return fmt.Errorf("policy line %q: %w", line, err)
		}
	}
	return nil
}
