package v2

// =============================================================================
// V2 API Types (CLIP API)
// These are not provided by huego, which only supports V1 API
// =============================================================================

// ResourceType is the kind of a CLIP v2 resource. Unknown kinds are carried
// through untouched.
type ResourceType string

const (
	TypeLight        ResourceType = "light"
	TypeDevice       ResourceType = "device"
	TypeRoom         ResourceType = "room"
	TypeZone         ResourceType = "zone"
	TypeGroupedLight ResourceType = "grouped_light"
	TypeBridgeHome   ResourceType = "bridge_home"
	TypeScene        ResourceType = "scene"
)

// ResourceRef points into another resource collection.
type ResourceRef struct {
	RID   string       `json:"rid"`
	RType ResourceType `json:"rtype"`
}

// ErrorDescriptor is one entry of an envelope's errors list.
type ErrorDescriptor struct {
	Description string `json:"description"`
}

// Envelope is the body of every CLIP v2 resource response.
type Envelope[T any] struct {
	Errors []ErrorDescriptor `json:"errors"`
	Data   []T               `json:"data"`
}

// GroupMetadata holds the user-facing name of a room or zone
type GroupMetadata struct {
	Name      string `json:"name"`
	Archetype string `json:"archetype"`
}

// Group represents a Hue room or zone (V2 API / CLIP).
// Room children reference devices; zone children reference lights.
type Group struct {
	ID       string        `json:"id"`
	IDV1     string        `json:"id_v1,omitempty"`
	Children []ResourceRef `json:"children"`
	Services []ResourceRef `json:"services"`
	Type     ResourceType  `json:"type"`
	Metadata GroupMetadata `json:"metadata"`
}

// Device represents a physical Hue device (V2 API / CLIP)
type Device struct {
	ID       string `json:"id"`
	IDV1     string `json:"id_v1,omitempty"`
	Metadata struct {
		Name      string `json:"name"`
		Archetype string `json:"archetype"`
	} `json:"metadata"`
	ProductData struct {
		ModelID          string `json:"model_id"`
		ManufacturerName string `json:"manufacturer_name"`
		ProductName      string `json:"product_name"`
		ProductArchetype string `json:"product_archetype"`
		Certified        bool   `json:"certified"`
		SoftwareVersion  string `json:"software_version"`
	} `json:"product_data"`
	Services []ResourceRef `json:"services"`
	Type     ResourceType  `json:"type"`
}

// OnState is the on/off feature shared by lights and grouped lights
type OnState struct {
	On bool `json:"on"`
}

// Dimming is the brightness feature shared by lights and grouped lights
type Dimming struct {
	Brightness  float64  `json:"brightness"`
	MinDimLevel *float64 `json:"min_dim_level,omitempty"`
}

// XY is a CIE colour coordinate
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Light represents a Hue light (V2 API / CLIP)
type Light struct {
	ID       string       `json:"id"`
	IDV1     string       `json:"id_v1,omitempty"`
	Owner    *ResourceRef `json:"owner,omitempty"`
	Metadata struct {
		Name      string `json:"name"`
		Archetype string `json:"archetype"`
		Function  string `json:"function,omitempty"`
	} `json:"metadata"`
	On               *OnState `json:"on,omitempty"`
	Dimming          *Dimming `json:"dimming,omitempty"`
	ColorTemperature *struct {
		Mirek       *int `json:"mirek"`
		MirekValid  bool `json:"mirek_valid"`
		MirekSchema struct {
			MirekMinimum int `json:"mirek_minimum"`
			MirekMaximum int `json:"mirek_maximum"`
		} `json:"mirek_schema"`
	} `json:"color_temperature,omitempty"`
	Color *struct {
		XY    XY `json:"xy"`
		Gamut *struct {
			Red   XY `json:"red"`
			Green XY `json:"green"`
			Blue  XY `json:"blue"`
		} `json:"gamut,omitempty"`
		GamutType string `json:"gamut_type,omitempty"`
	} `json:"color,omitempty"`
	Mode string       `json:"mode,omitempty"`
	Type ResourceType `json:"type"`
}

// GroupedLight represents the virtual light controlling a whole room or zone
type GroupedLight struct {
	ID      string       `json:"id"`
	IDV1    string       `json:"id_v1,omitempty"`
	Owner   *ResourceRef `json:"owner,omitempty"`
	On      *OnState     `json:"on,omitempty"`
	Dimming *Dimming     `json:"dimming,omitempty"`
	Type    ResourceType `json:"type"`
}
