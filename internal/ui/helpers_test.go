package ui

import "github.com/tapo-chatter/tapo-chatter/internal/tapo"

func tapoChild(name string, data map[string]any) tapo.Child {
	return tapo.Child{
		Attributes: tapo.AttributeBag{"nickname": name, "device_id": "id-" + name},
		Data:       data,
	}
}
