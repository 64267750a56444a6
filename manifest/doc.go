// Package manifest reads class descriptors from YAML or JSON files.
//
// A manifest lists the classes to compile. Request-style classes carry a
// rules mapping of field paths to rules; data-style classes list their
// properties:
//
//	classes:
//	  App.Http.Requests.StoreUserRequest:
//	    rules:
//	      name: required|string|max:255
//	      role: required|in:admin,member
//	      team: {required_if: {field: role, value: member}}
//	      password:
//	        - required
//	        - password: {min: 8, mixed_case: true, numbers: true}
//	    messages:
//	      name.required: Please enter a name.
//	  App.Data.UserData:
//	    kind: data
//	    properties:
//	      name: {type: string, rules: max:255}
//	      address: {data: App.Data.AddressData, optional: true}
//
// Mapping order is preserved in both formats, so rule paths keep their
// authored order and password constraints apply in the order written.
//
// A rule written as a mapping becomes a rule object: required_if,
// required_unless, required_with, required_without, password, in, not_in,
// enum and when have dedicated forms. Any other key becomes "key:value",
// with true or null giving the bare rule and false dropping it.
//
// Errors are returned as [rzerrors.ManifestError] and carry the line number
// when the format provides one.
package manifest
