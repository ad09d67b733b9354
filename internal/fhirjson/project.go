// Package fhirjson projects a FHIR JSON document into the same xmldom
// tree shape the XML parser produces, so a single rule engine
// (internal/fhirlint) runs regardless of source format (spec.md §4.5).
package fhirjson

import (
	"encoding/xml"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/dsf-tools/dsf-plugin-linter/internal/xmldom"
)

// Project parses data as FHIR JSON and projects it to an xmldom.Document
// per spec.md §4.5's rules:
//   - a JSON object becomes an XML element named by the enclosing
//     property, or "resourceType" at the root;
//   - a primitive property p with value v becomes <p value="v"/>;
//   - inside an "extension" element, the property "url" becomes the XML
//     attribute "url" on that element rather than a child, recursively
//     for nested extensions; elsewhere "url" stays a normal element;
//   - arrays become repeated sibling elements.
//
// gjson.Parse walks the raw JSON without an intermediate map[string]any,
// matching the "dynamic tree" the spec calls for without a hand-rolled
// walker (the teacher's indirect gjson/sjson dependency, promoted here
// to direct use).
func Project(data []byte, file string) (*xmldom.Document, error) {
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("fhirjson: %s: root is not a JSON object", file)
	}
	resourceType := root.Get("resourceType").String()
	if resourceType == "" {
		return nil, fmt.Errorf("fhirjson: %s: missing resourceType", file)
	}
	return &xmldom.Document{File: file, Root: projectObject(resourceType, root)}, nil
}

func projectObject(elementName string, obj gjson.Result) *xmldom.Node {
	node := &xmldom.Node{XMLName: xml.Name{Local: elementName}}
	obj.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if k == "resourceType" {
			return true
		}
		if elementName == "extension" && k == "url" {
			node.Attrs = append(node.Attrs, xml.Attr{Name: xml.Name{Local: "url"}, Value: value.String()})
			return true
		}
		if value.IsArray() {
			value.ForEach(func(_ gjson.Result, item gjson.Result) bool {
				node.Nodes = append(node.Nodes, projectValue(k, item))
				return true
			})
			return true
		}
		node.Nodes = append(node.Nodes, projectValue(k, value))
		return true
	})
	return node
}

func projectValue(name string, v gjson.Result) *xmldom.Node {
	if v.IsObject() {
		return projectObject(name, v)
	}
	return &xmldom.Node{
		XMLName: xml.Name{Local: name},
		Attrs:   []xml.Attr{{Name: xml.Name{Local: "value"}, Value: v.String()}},
	}
}
