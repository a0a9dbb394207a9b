package parser

import (
	"strings"

	"github.com/yonasBSD/hiwave-windows-sub003/parser/spec"
)

// SVG's camelCased tag names come out of the tokenizer lowercased and have
// to be put back.
var svgTagNameAdjustments = map[string]string{
	"altglyph":            "altGlyph",
	"altglyphdef":         "altGlyphDef",
	"altglyphitem":        "altGlyphItem",
	"animatecolor":        "animateColor",
	"animatemotion":       "animateMotion",
	"animatetransform":    "animateTransform",
	"clippath":            "clipPath",
	"feblend":             "feBlend",
	"fecolormatrix":       "feColorMatrix",
	"fecomponenttransfer": "feComponentTransfer",
	"fecomposite":         "feComposite",
	"feconvolvematrix":    "feConvolveMatrix",
	"fediffuselighting":   "feDiffuseLighting",
	"fedisplacementmap":   "feDisplacementMap",
	"fedistantlight":      "feDistantLight",
	"fedropshadow":        "feDropShadow",
	"feflood":             "feFlood",
	"fefunca":             "feFuncA",
	"fefuncb":             "feFuncB",
	"fefuncg":             "feFuncG",
	"fefuncr":             "feFuncR",
	"fegaussianblur":      "feGaussianBlur",
	"feimage":             "feImage",
	"femerge":             "feMerge",
	"femergenode":         "feMergeNode",
	"femorphology":        "feMorphology",
	"feoffset":            "feOffset",
	"fepointlight":        "fePointLight",
	"fespecularlighting":  "feSpecularLighting",
	"fespotlight":         "feSpotLight",
	"fetile":              "feTile",
	"feturbulence":        "feTurbulence",
	"foreignobject":       "foreignObject",
	"glyphref":            "glyphRef",
	"lineargradient":      "linearGradient",
	"radialgradient":      "radialGradient",
	"textpath":            "textPath",
}

var svgAttributeAdjustments = map[string]string{
	"attributename":       "attributeName",
	"attributetype":       "attributeType",
	"basefrequency":       "baseFrequency",
	"baseprofile":         "baseProfile",
	"calcmode":            "calcMode",
	"clippathunits":       "clipPathUnits",
	"diffuseconstant":     "diffuseConstant",
	"edgemode":            "edgeMode",
	"filterunits":         "filterUnits",
	"glyphref":            "glyphRef",
	"gradienttransform":   "gradientTransform",
	"gradientunits":       "gradientUnits",
	"kernelmatrix":        "kernelMatrix",
	"kernelunitlength":    "kernelUnitLength",
	"keypoints":           "keyPoints",
	"keysplines":          "keySplines",
	"keytimes":            "keyTimes",
	"lengthadjust":        "lengthAdjust",
	"limitingconeangle":   "limitingConeAngle",
	"markerheight":        "markerHeight",
	"markerunits":         "markerUnits",
	"markerwidth":         "markerWidth",
	"maskcontentunits":    "maskContentUnits",
	"maskunits":           "maskUnits",
	"numoctaves":          "numOctaves",
	"pathlength":          "pathLength",
	"patterncontentunits": "patternContentUnits",
	"patterntransform":    "patternTransform",
	"patternunits":        "patternUnits",
	"pointsatx":           "pointsAtX",
	"pointsaty":           "pointsAtY",
	"pointsatz":           "pointsAtZ",
	"preservealpha":       "preserveAlpha",
	"preserveaspectratio": "preserveAspectRatio",
	"primitiveunits":      "primitiveUnits",
	"refx":                "refX",
	"refy":                "refY",
	"repeatcount":         "repeatCount",
	"repeatdur":           "repeatDur",
	"requiredextensions":  "requiredExtensions",
	"requiredfeatures":    "requiredFeatures",
	"specularconstant":    "specularConstant",
	"specularexponent":    "specularExponent",
	"spreadmethod":        "spreadMethod",
	"startoffset":         "startOffset",
	"stddeviation":        "stdDeviation",
	"stitchtiles":         "stitchTiles",
	"surfacescale":        "surfaceScale",
	"systemlanguage":      "systemLanguage",
	"tablevalues":         "tableValues",
	"targetx":             "targetX",
	"targety":             "targetY",
	"textlength":          "textLength",
	"viewbox":             "viewBox",
	"viewtarget":          "viewTarget",
	"xchannelselector":    "xChannelSelector",
	"ychannelselector":    "yChannelSelector",
	"zoomandpan":          "zoomAndPan",
}

var mathMLAttributeAdjustments = map[string]string{
	"definitionurl": "definitionURL",
}

// xlink:, xml: and xmlns attributes get split into a namespace when they
// appear on foreign elements.
var foreignAttributeNamespaces = map[string]spec.Namespace{
	"xlink:actuate": spec.XLinkNamespace,
	"xlink:arcrole": spec.XLinkNamespace,
	"xlink:href":    spec.XLinkNamespace,
	"xlink:role":    spec.XLinkNamespace,
	"xlink:show":    spec.XLinkNamespace,
	"xlink:title":   spec.XLinkNamespace,
	"xlink:type":    spec.XLinkNamespace,
	"xml:lang":      spec.XMLNamespace,
	"xml:space":     spec.XMLNamespace,
	"xmlns":         spec.XMLNSNamespace,
	"xmlns:xlink":   spec.XMLNSNamespace,
}

func adjustSVGTagName(name string) string {
	if adjusted, ok := svgTagNameAdjustments[name]; ok {
		return adjusted
	}
	return name
}

func adjustAttributes(attrs []spec.Attribute, adjustments map[string]string) {
	for i, a := range attrs {
		if adjusted, ok := adjustments[a.Name]; ok {
			attrs[i].Name = adjusted
		}
	}
}

func adjustForeignAttributes(attrs []spec.Attribute) {
	for i, a := range attrs {
		if ns, ok := foreignAttributeNamespaces[a.Name]; ok {
			attrs[i].Namespace = ns
		}
	}
}

// isMathMLTextIntegrationPoint reports whether HTML-style parsing resumes for
// character and most tag tokens inside n.
func isMathMLTextIntegrationPoint(n *spec.Node) bool {
	if n == nil || n.Namespace != spec.MathMLNamespace {
		return false
	}
	switch n.Data {
	case "mi", "mo", "mn", "ms", "mtext":
		return true
	}
	return false
}

func isHTMLIntegrationPoint(n *spec.Node) bool {
	if n == nil {
		return false
	}
	switch n.Namespace {
	case spec.MathMLNamespace:
		if n.Data != "annotation-xml" {
			return false
		}
		enc, ok := n.GetAttr("encoding")
		if !ok {
			return false
		}
		switch strings.ToLower(enc) {
		case "text/html", "application/xhtml+xml":
			return true
		}
		return false
	case spec.SVGNamespace:
		switch n.Data {
		case "foreignObject", "desc", "title":
			return true
		}
	}
	return false
}

// tags whose start tokens abandon foreign content and fall back to the
// regular insertion mode
var foreignBreakoutTags = map[string]bool{
	"b": true, "big": true, "blockquote": true, "body": true, "br": true,
	"center": true, "code": true, "dd": true, "div": true, "dl": true,
	"dt": true, "em": true, "embed": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "head": true,
	"hr": true, "i": true, "img": true, "li": true, "listing": true,
	"menu": true, "meta": true, "nobr": true, "ol": true, "p": true,
	"pre": true, "ruby": true, "s": true, "small": true, "span": true,
	"strong": true, "strike": true, "sub": true, "sup": true,
	"table": true, "tt": true, "u": true, "ul": true, "var": true,
}

func isForeignBreakout(t *Token) bool {
	if foreignBreakoutTags[t.TagName] {
		return true
	}
	if t.TagName == "font" {
		for _, name := range []string{"color", "face", "size"} {
			if _, ok := t.getAttribute(name); ok {
				return true
			}
		}
	}
	return false
}
