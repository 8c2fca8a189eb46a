package demangle

// shortcut1 maps single-character stdlib type codes (§4.1 *shortcut₁*).
var shortcut1 = map[byte]string{
	'a': "Array",
	'b': "Bool",
	'D': "Dictionary",
	'd': "Double",
	'f': "Float",
	'h': "Set",
	'i': "Int",
	'J': "Character",
	'N': "ClosedRange",
	'n': "Range",
	'O': "ObjectIdentifier",
	'P': "UnsafePointer",
	'p': "UnsafeMutablePointer",
	'q': "Optional",
	'R': "UnsafeBufferPointer",
	'r': "UnsafeMutableBufferPointer",
	'S': "String",
	's': "Substring",
	'u': "UInt",
	'V': "UnsafeRawPointer",
	'v': "UnsafeMutableRawPointer",
}

// shortcut2 maps two-character stdlib shortcuts (§4.1 *shortcut₂*).
var shortcut2 = map[string]string{
	"Sa": "Array",
	"Sb": "Bool",
	"SD": "Dictionary",
	"Sd": "Double",
	"Sf": "Float",
	"Sh": "Set",
	"Si": "Int",
	"SS": "String",
	"Su": "UInt",
	"Ss": "Int8",
	"SZ": "UInt8",
	"Sg": "Optional",
	"Sq": "Optional",
	"yt": "()",

	"ScT": "Task",
	"Scg": "TaskGroup",
	"ScG": "ThrowingTaskGroup",
	"ScP": "TaskPriority",
	"ScA": "Actor",
	"ScM": "MainActor",
	"ScC": "CheckedContinuation",
	"ScU": "UnsafeContinuation",
	"ScS": "AsyncStream",
	"ScF": "AsyncThrowingStream",
}

// protocolShortcut2 maps protocol shortcuts (§4.1 *protocol-shortcut₂*). SZ
// and SD also appear in shortcut2 (UInt8, Dictionary) with unrelated
// meanings; callers parsing a known protocol-reference position (e.g. a
// generic conformance requirement target) use parseProtocolToken, which
// checks this table before falling back to parseType's normal dispatch.
var protocolShortcut2 = map[string]string{
	"SH": "Hashable",
	"SE": "Equatable",
	"SQ": "Equatable",
	"Sl": "Collection",
	"ST": "Sequence",
	"SL": "Comparable",
	"Sz": "BinaryInteger",
	"SZ": "SignedInteger",
	"SU": "UnsignedInteger",
	"SY": "RawRepresentable",
	"Se": "Encodable",
	"SD": "Decodable",
	"SN": "FixedWidthInteger",
}

// standardProtocols is the `s<len><name>P` module-qualified protocol set,
// keyed by name; the rendered name is the name itself. tryStandardProtocol
// matches the form by its `P` suffix and renders names outside this set too.
var standardProtocols = map[string]bool{
	"Sendable":               true,
	"Error":                  true,
	"Codable":                true,
	"Comparable":             true,
	"Hashable":               true,
	"Equatable":              true,
	"Identifiable":           true,
	"AsyncSequence":          true,
	"AsyncIteratorProtocol":  true,
	"IteratorProtocol":       true,
	"Actor":                  true,
	"AdditiveArithmetic":     true,
	"CustomStringConvertible": true,
	"TextOutputStream":       true,
}

// builtinTypes maps *builtin* token codes (§4.1).
var builtinTypes = map[string]string{
	"Bb": "Builtin.BridgeObject",
	"Bo": "Builtin.NativeObject",
	"BO": "Builtin.UnknownObject",
	"Bp": "Builtin.RawPointer",
	"Bw": "Builtin.Word",
	"BB": "Builtin.UnsafeValueBuffer",
	"BD": "Builtin.DefaultActorStorage",
	"Be": "Builtin.Executor",
	"Bi": "Builtin.Int",
	"Bf": "Builtin.FPIEEE",
	"Bv": "Builtin.Vector",
}

// objcNameTable maps imported Objective-C class/protocol names to their
// Swift stdlib/Foundation equivalents (§4.1 *ObjC-imported*).
var objcNameTable = map[string]string{
	"NSString":     "String",
	"NSArray":      "Array",
	"NSDictionary": "Dictionary",
	"NSSet":        "Set",
	"NSURL":        "URL",
	"NSData":       "Data",
	"NSDate":       "Date",
}

const objcDispatchPrefix = "OS_dispatch_"
